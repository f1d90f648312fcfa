// Package render turns positioned events into a raster day-view image.
package render

import (
	"fmt"
	"image"
	"time"

	"github.com/fogleman/gg"

	"dayview/internal/log"
	"dayview/internal/model"
)

// Renderer draws day views against a fixed theme. A Renderer is safe for
// concurrent use: every render owns its own drawing context and the theme
// is never written after construction.
type Renderer struct {
	theme Theme
}

// New returns a Renderer using the given theme.
func New(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Report summarizes the per-event outcomes of one render. Skipped counts
// events dropped for degenerate geometry or a recovered draw failure.
type Report struct {
	Drawn   int
	Skipped int
}

// DayView renders the grid for one date with the given positioned events.
// minWidth and minHeight are advisory minimums; the canvas grows vertically
// to fit the time window. A failure drawing one event is recovered, logged
// and counted, and never aborts the remaining events.
func (r *Renderer) DayView(day time.Time, events []model.PositionedEvent, win model.TimeWindow, minWidth, minHeight int) (image.Image, Report) {
	width := minWidth
	if width <= 0 {
		width = 800
	}
	height := minHeight
	required := int(HeaderHeight + float64(win.VisibleHours())*HourHeight + FooterMargin)
	if height < required {
		height = required
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(r.theme.Background)
	dc.Clear()

	r.drawHeader(dc, day, width)
	r.drawGrid(dc, win, width)

	var report Report
	for _, pe := range events {
		ok, err := r.drawEvent(dc, pe, win, day, width, height)
		if err != nil {
			log.Error("event draw failed, skipping", err, "uid", pe.Event.UID)
			report.Skipped++
			continue
		}
		if !ok {
			report.Skipped++
			continue
		}
		report.Drawn++
	}

	r.drawFooter(dc, height)

	return dc.Image(), report
}

func (r *Renderer) drawHeader(dc *gg.Context, day time.Time, width int) {
	dc.SetColor(r.theme.Primary)
	dc.DrawRectangle(0, 0, float64(width), HeaderHeight)
	dc.Fill()

	dc.SetFontFace(newFace(20, true))
	dc.SetColor(r.theme.White)
	dc.DrawStringAnchored(day.Format("Monday, January 2, 2006"), float64(width)/2, HeaderHeight/2, 0.5, 0.5)
}

func (r *Renderer) drawGrid(dc *gg.Context, win model.TimeWindow, width int) {
	visible := win.VisibleHours()
	gridHeight := float64(visible) * HourHeight

	dc.SetColor(r.theme.Background)
	dc.DrawRectangle(0, HeaderHeight, float64(width), gridHeight)
	dc.Fill()

	dc.SetColor(r.theme.Gray100)
	dc.DrawRectangle(0, HeaderHeight, TimeColumnWidth, gridHeight)
	dc.Fill()

	labelFace := newFace(12, false)
	for i := 0; i <= visible; i++ {
		y := HeaderHeight + float64(i)*HourHeight

		dc.SetColor(r.theme.Gray300)
		dc.SetLineWidth(1)
		dc.DrawLine(0, y, float64(width), y)
		dc.Stroke()

		if i < visible {
			dc.SetFontFace(labelFace)
			dc.SetColor(r.theme.Gray600)
			dc.DrawStringAnchored(hourLabel(win.StartHour+i), TimeColumnWidth/2, y+5, 0.5, 1)
		}
	}

	dc.SetColor(r.theme.Gray300)
	dc.SetLineWidth(1)
	dc.DrawLine(TimeColumnWidth, HeaderHeight, TimeColumnWidth, HeaderHeight+gridHeight)
	dc.Stroke()
}

// hourLabel formats a grid hour on a 12-hour clock. Hour 24 wraps to the
// same label as hour 0, but only hours below EndHour are ever labeled.
func hourLabel(hour int) string {
	h := hour % 24
	switch {
	case h == 0:
		return "12 AM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	case h == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}

// drawEvent draws a single event box. The bool reports whether the event was
// drawable at all; a recovered panic is returned as an error so one bad
// event cannot take down the whole render.
func (r *Renderer) drawEvent(dc *gg.Context, pe model.PositionedEvent, win model.TimeWindow, day time.Time, width, height int) (drawn bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			drawn = false
			err = fmt.Errorf("draw event %s: %v", pe.Event.UID, p)
		}
	}()

	rect, ok := EventRect(pe, win, day, width, height)
	if !ok {
		log.Debug("event not drawable", "uid", pe.Event.UID)
		return false, nil
	}

	eventColor := ParseHexOrDefault(pe.Event.PlanningColor)

	// Lightened fill with the planning color as outline.
	dc.DrawRectangle(rect.X, rect.Y, rect.W, rect.H)
	dc.SetColor(Lighten(eventColor, 100))
	dc.FillPreserve()
	dc.SetColor(eventColor)
	dc.SetLineWidth(2)
	dc.Stroke()

	// Full-height accent bar along the left edge.
	dc.SetColor(eventColor)
	dc.DrawRectangle(rect.X, rect.Y, 4, rect.H)
	dc.Fill()

	titleFace := newFace(14, true)
	detailFace := newFace(10, false)

	textX := rect.X + 8
	textWidth := rect.W - 16
	bottom := rect.Y + rect.H - 5
	cur := rect.Y + 5

	// Title, wrapped. Each block below is skipped once vertical space runs
	// out; that is a soft degradation, not an error.
	if pe.Event.Summary != "" {
		dc.SetFontFace(titleFace)
		measure := func(s string) float64 {
			w, _ := dc.MeasureString(s)
			return w
		}
		dc.SetColor(r.theme.Foreground)
		for _, line := range WrapText(measure, pe.Event.Summary, textWidth) {
			if cur+16 > bottom {
				break
			}
			dc.DrawStringAnchored(line, textX, cur, 0, 1)
			cur += 16
		}
	}

	dc.SetFontFace(detailFace)
	measure := func(s string) float64 {
		w, _ := dc.MeasureString(s)
		return w
	}

	// Time range in the display timezone.
	timeText := pe.Event.Start.Format("15:04") + " - " + pe.Event.End.Format("15:04")
	cur += 4
	if cur+12 <= bottom {
		dc.SetColor(r.theme.Gray600)
		dc.DrawStringAnchored(timeText, textX, cur, 0, 1)
		cur += 15
	}

	// Location, if present and space remains.
	if pe.Event.Location != "" && cur+12 <= bottom {
		dc.SetColor(r.theme.Gray600)
		for _, line := range WrapText(measure, "@ "+pe.Event.Location, textWidth) {
			if cur+12 > bottom {
				break
			}
			dc.DrawStringAnchored(line, textX, cur, 0, 1)
			cur += 12
		}
	}

	// Planning name, only when the box is tall enough.
	if rect.H > 70 && cur+12 <= bottom {
		dc.SetColor(r.theme.Gray500)
		for _, line := range WrapText(measure, pe.Event.PlanningName, textWidth) {
			if cur+12 > bottom {
				break
			}
			dc.DrawStringAnchored(line, textX, cur, 0, 1)
			cur += 12
		}
	}

	return true, nil
}

func (r *Renderer) drawFooter(dc *gg.Context, height int) {
	dc.SetFontFace(newFace(10, false))
	dc.SetColor(r.theme.Gray500)
	dc.DrawStringAnchored("Generated by dayview", Margin, float64(height)-30, 0, 1)
}
