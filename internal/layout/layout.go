// Package layout computes the visible hour window for a day and packs
// time-overlapping events into horizontal columns.
package layout

import (
	"sort"
	"time"

	"dayview/internal/model"
	"dayview/internal/timeutil"
)

// Default window when a day has no events.
const (
	DefaultStartHour = 8
	DefaultEndHour   = 18
)

// Window derives the [start, end) hour range to draw for the given day.
// The result pads one hour above the earliest event and one below the
// latest, clamped to the 0-24 calendar day. End hours use the display
// components so an event ending at midnight of the next day extends the
// window to 24.
func Window(events []model.Event, day time.Time) model.TimeWindow {
	if len(events) == 0 {
		return model.TimeWindow{StartHour: DefaultStartHour, EndHour: DefaultEndHour}
	}

	minStart := 24
	maxEnd := 0
	for _, ev := range events {
		startHour, _ := timeutil.Components(ev.Start)
		endHour, _ := timeutil.DisplayEndComponents(ev.End, day)
		if startHour < minStart {
			minStart = startHour
		}
		if endHour > maxEnd {
			maxEnd = endHour
		}
	}

	start := minStart - 1
	if start < 0 {
		start = 0
	}
	end := maxEnd + 1
	if end > 24 {
		end = 24
	}
	return model.TimeWindow{StartHour: start, EndHour: end}
}

// Position assigns each event a column and a total column count so that any
// two events whose intervals truly overlap (open-interval: zero-duration
// touching does not count) land in distinct columns.
//
// Events are first grouped by planning; plannings are ordered by their
// earliest event start and given a base column each, so a planning's events
// stay in a stable horizontal band. Within a band the sweep packs concurrent
// events into the lowest free sub-column. Ties on identical start instants
// are broken by original input order, which makes the result deterministic
// for a fixed input ordering.
func Position(events []model.Event) []model.PositionedEvent {
	if len(events) == 0 {
		return nil
	}

	// Base column per planning, ranked by earliest event start. Encounter
	// order breaks ties between plannings starting at the same instant.
	earliest := make(map[string]time.Time)
	planningOrder := make([]string, 0)
	for _, ev := range events {
		first, seen := earliest[ev.PlanningID]
		if !seen {
			earliest[ev.PlanningID] = ev.Start
			planningOrder = append(planningOrder, ev.PlanningID)
			continue
		}
		if ev.Start.Before(first) {
			earliest[ev.PlanningID] = ev.Start
		}
	}
	sort.SliceStable(planningOrder, func(i, j int) bool {
		return earliest[planningOrder[i]].Before(earliest[planningOrder[j]])
	})
	baseColumn := make(map[string]int, len(planningOrder))
	for rank, id := range planningOrder {
		baseColumn[id] = rank
	}

	// Sweep events in start order, keeping per-planning active sets.
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	positioned := make([]*model.PositionedEvent, 0, len(sorted))
	active := make(map[string][]*model.PositionedEvent)

	for _, ev := range sorted {
		base := baseColumn[ev.PlanningID]

		// Expire events from this planning that ended at or before the
		// current start.
		still := make([]*model.PositionedEvent, 0, len(active[ev.PlanningID]))
		for _, a := range active[ev.PlanningID] {
			if a.Event.End.After(ev.Start) {
				still = append(still, a)
			}
		}

		// Lowest free sub-column within the planning's band.
		used := make(map[int]bool, len(still))
		for _, a := range still {
			used[a.Column-base] = true
		}
		sub := 0
		for used[sub] {
			sub++
		}

		pe := &model.PositionedEvent{Event: ev, Column: base + sub}
		positioned = append(positioned, pe)
		active[ev.PlanningID] = append(still, pe)
	}

	// Second pass: events sharing an overlap cluster must agree on the
	// width divisor, otherwise boxes of different widths leave gaps or
	// collide. An event in several clusters takes the largest requirement.
	for _, pe := range positioned {
		maxColumn := -1
		var cluster []*model.PositionedEvent
		for _, other := range positioned {
			if other.Event.Start.Before(pe.Event.End) && other.Event.End.After(pe.Event.Start) {
				cluster = append(cluster, other)
				if other.Column > maxColumn {
					maxColumn = other.Column
				}
			}
		}
		total := maxColumn + 1
		for _, member := range cluster {
			if total > member.TotalColumns {
				member.TotalColumns = total
			}
		}
	}

	out := make([]model.PositionedEvent, len(positioned))
	for i, pe := range positioned {
		// Zero-duration events overlap nothing, not even themselves; they
		// still need a valid divisor.
		if pe.TotalColumns < pe.Column+1 {
			pe.TotalColumns = pe.Column + 1
		}
		out[i] = *pe
	}
	return out
}
