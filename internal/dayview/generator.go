// Package dayview assembles events from all sources and renders the
// day-view image for one date.
package dayview

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"time"

	"dayview/internal/backend"
	"dayview/internal/ics"
	"dayview/internal/layout"
	"dayview/internal/log"
	"dayview/internal/model"
	"dayview/internal/render"
	"dayview/internal/timeutil"
)

// Generator runs the full pipeline: fetch, normalize, window, position,
// draw, encode. It holds no per-render state and is safe for concurrent use.
type Generator struct {
	norm     *timeutil.Normalizer
	client   *backend.Client
	fetcher  *ics.Fetcher
	sources  []ics.Source
	renderer *render.Renderer

	defaultWidth  int
	defaultHeight int
}

// New creates a Generator. client may be nil when no backend is configured;
// sources may be empty when no ICS feeds are configured.
func New(norm *timeutil.Normalizer, client *backend.Client, fetcher *ics.Fetcher, sources []ics.Source, defaultWidth, defaultHeight int) *Generator {
	if defaultWidth <= 0 {
		defaultWidth = 800
	}
	if defaultHeight <= 0 {
		defaultHeight = 1000
	}
	return &Generator{
		norm:          norm,
		client:        client,
		fetcher:       fetcher,
		sources:       sources,
		renderer:      render.New(render.DefaultTheme()),
		defaultWidth:  defaultWidth,
		defaultHeight: defaultHeight,
	}
}

// Generate renders the day view for the given date (midnight in the display
// timezone) as PNG bytes. width and height are advisory minimums; zero
// values take the configured defaults. Zero events is not an error: the
// default 8-18 grid renders empty.
func (g *Generator) Generate(ctx context.Context, day time.Time, width, height int) ([]byte, render.Report, error) {
	if width <= 0 {
		width = g.defaultWidth
	}
	if height <= 0 {
		height = g.defaultHeight
	}

	events, err := g.collectEvents(ctx, day)
	if err != nil {
		return nil, render.Report{}, err
	}

	win := layout.Window(events, day)
	positioned := layout.Position(events)

	img, report := g.renderer.DayView(day, positioned, win, width, height)
	log.Info("day view rendered",
		"date", day.Format("2006-01-02"),
		"events", len(events),
		"drawn", report.Drawn,
		"skipped", report.Skipped,
		"window_start", win.StartHour,
		"window_end", win.EndHour,
	)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, report, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), report, nil
}

// collectEvents merges backend and ICS events for the day. Backend
// unavailability is a hard error; a malformed event timestamp only drops
// that event.
func (g *Generator) collectEvents(ctx context.Context, day time.Time) ([]model.Event, error) {
	var events []model.Event

	if g.client != nil {
		records, err := g.client.Events(ctx)
		if err != nil {
			return nil, fmt.Errorf("backend: %w", err)
		}
		lookup, err := g.planningLookup(ctx)
		if err != nil {
			return nil, fmt.Errorf("backend: %w", err)
		}
		events = append(events, g.normalizeRecords(records, lookup, day)...)
	}

	if g.fetcher != nil && len(g.sources) > 0 {
		results, errs := g.fetcher.FetchAll(ctx, g.sources)
		if len(errs) > 0 {
			// Per-feed failures degrade to the feeds that answered.
			log.Warn("some ics feeds failed", "failed", len(errs), "fetched", len(results))
		}
		for _, res := range results {
			parsed, err := ics.Parse(res.Source, res.Body)
			if err != nil {
				log.Error("ics parse failed, skipping feed", err, "id", res.Source.ID)
				continue
			}
			events = append(events, ics.DayEvents(parsed, day, g.norm.Location())...)
		}
	}

	return events, nil
}

// planningLookup fetches plannings and indexes them by id.
func (g *Generator) planningLookup(ctx context.Context) (map[string]model.Planning, error) {
	records, err := g.client.Plannings(ctx)
	if err != nil {
		return nil, err
	}
	lookup := make(map[string]model.Planning, len(records))
	for _, p := range records {
		lookup[p.ID] = model.Planning{
			ID:          p.ID,
			Name:        p.Name,
			Color:       p.Color,
			Description: p.Description,
		}
	}
	return lookup, nil
}

// normalizeRecords filters backend records to the requested day and joins
// planning display attributes. Records whose timestamps fail to parse are
// dropped with a log, never failing the request.
func (g *Generator) normalizeRecords(records []backend.EventRecord, plannings map[string]model.Planning, day time.Time) []model.Event {
	out := make([]model.Event, 0, len(records))
	for _, rec := range records {
		eventDay, err := g.norm.LocalDate(rec.StartTime)
		if err != nil {
			log.Error("dropping event with malformed start time", err, "uid", rec.UID)
			continue
		}
		if !eventDay.Equal(day) {
			continue
		}
		start, err := g.norm.ParseInstant(rec.StartTime)
		if err != nil {
			log.Error("dropping event with malformed start time", err, "uid", rec.UID)
			continue
		}
		end, err := g.norm.ParseInstant(rec.EndTime)
		if err != nil {
			log.Error("dropping event with malformed end time", err, "uid", rec.UID)
			continue
		}

		name := "Default"
		color := render.DefaultPlanningColor
		if p, ok := plannings[rec.PlanningID]; ok {
			name = p.Name
			color = p.Color
		}

		out = append(out, model.Event{
			UID:           rec.UID,
			Summary:       rec.Summary,
			Description:   rec.Description,
			Location:      rec.Location,
			Start:         start,
			End:           end,
			PlanningID:    rec.PlanningID,
			PlanningName:  name,
			PlanningColor: color,
		})
	}
	return out
}
