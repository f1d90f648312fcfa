package ics

import (
	"time"

	"github.com/teambition/rrule-go"

	"dayview/internal/log"
	"dayview/internal/model"
)

// Expansion safety cap per event; a runaway RRULE cannot flood a day.
const maxOccurrencesPerEvent = 500

// DayEvents expands parsed events into concrete day-view events whose start
// falls on the given day (midnight in the display location). All-day events
// are skipped: the day grid has no all-day lane. Recurring events are
// expanded with RRULE/EXDATE; each occurrence keeps the base event's
// duration.
func DayEvents(parsed []ParsedEvent, day time.Time, loc *time.Location) []model.Event {
	if loc == nil {
		loc = time.UTC
	}
	dayStart := day
	dayEnd := day.AddDate(0, 0, 1)

	out := make([]model.Event, 0)
	for _, ev := range parsed {
		if ev.AllDay {
			log.Debug("skipping all-day event", "uid", ev.UID, "id", ev.Source.ID)
			continue
		}
		if ev.RawRRule == "" {
			start := ev.Start.In(loc)
			if start.Before(dayStart) || !start.Before(dayEnd) {
				continue
			}
			out = append(out, toEvent(ev, start, ev.End.In(loc)))
			continue
		}
		out = append(out, expandRecurring(ev, dayStart, dayEnd, loc)...)
	}
	return out
}

func expandRecurring(ev ParsedEvent, dayStart, dayEnd time.Time, loc *time.Location) []model.Event {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		log.Error("failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	// Between works in the event's own location; widen by a day on each
	// side so zone offsets cannot drop an occurrence, then filter on the
	// display-local start below.
	rangeStart := dayStart.AddDate(0, 0, -1).In(ev.Start.Location())
	rangeEnd := dayEnd.AddDate(0, 0, 1).In(ev.Start.Location())
	times := set.Between(rangeStart, rangeEnd, true)
	if len(times) > maxOccurrencesPerEvent {
		log.Warn("recurrence expansion capped", "uid", ev.UID, "cap", maxOccurrencesPerEvent)
		times = times[:maxOccurrencesPerEvent]
	}

	duration := ev.End.Sub(ev.Start)

	out := make([]model.Event, 0, 1)
	for _, occStart := range times {
		start := occStart.In(loc)
		if start.Before(dayStart) || !start.Before(dayEnd) {
			continue
		}
		out = append(out, toEvent(ev, start, start.Add(duration)))
	}
	return out
}

func toEvent(ev ParsedEvent, start, end time.Time) model.Event {
	name := ev.Source.Name
	if name == "" {
		name = ev.Source.ID
	}
	return model.Event{
		UID:           ev.UID + "@" + ev.Source.ID,
		Summary:       ev.Summary,
		Description:   ev.Description,
		Location:      ev.Location,
		Start:         start,
		End:           end,
		PlanningID:    ev.Source.ID,
		PlanningName:  name,
		PlanningColor: ev.Source.Color,
	}
}
