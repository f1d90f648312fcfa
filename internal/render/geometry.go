package render

import (
	"math"
	"time"

	"dayview/internal/log"
	"dayview/internal/model"
	"dayview/internal/timeutil"
)

// Pixel geometry of the day view.
const (
	HourHeight      = 60.0
	TimeColumnWidth = 80.0
	Margin          = 20.0
	HeaderHeight    = 60.0
	FooterMargin    = 40.0

	minEventHeight = 30.0
	bottomInset    = 20.0

	// Durations beyond a full day are capped before computing height so a
	// corrupt end timestamp cannot explode the geometry.
	maxEventMinutes = 24 * 60.0
)

// Rect is a pixel rectangle on the canvas.
type Rect struct {
	X, Y, W, H float64
}

// EventRect maps a positioned event onto the canvas, or reports that the
// event is not drawable. Events entirely outside the visible window, with
// degenerate or non-finite coordinates, or starting below the usable area
// are skipped; a box whose bottom would pass the usable area is truncated
// to fit instead.
func EventRect(pe model.PositionedEvent, win model.TimeWindow, day time.Time, canvasWidth, canvasHeight int) (Rect, bool) {
	startHour, startMin := timeutil.Components(pe.Event.Start)
	endHour, endMin := timeutil.DisplayEndComponents(pe.Event.End, day)

	startMinutes := float64(startHour*60 + startMin)
	endMinutes := float64(endHour*60 + endMin)
	rangeStart := float64(win.StartHour * 60)
	rangeEnd := float64(win.EndHour * 60)

	visibleStart := math.Max(startMinutes, rangeStart)
	visibleEnd := math.Min(endMinutes, rangeEnd)
	if visibleStart >= visibleEnd {
		// Zero duration or entirely outside the window.
		return Rect{}, false
	}

	if visibleEnd-visibleStart > maxEventMinutes {
		visibleEnd = visibleStart + maxEventMinutes
		log.Warn("event duration capped for drawing", "uid", pe.Event.UID, "cap_minutes", maxEventMinutes)
	}

	if pe.TotalColumns <= 0 {
		return Rect{}, false
	}

	top := HeaderHeight + (visibleStart-rangeStart)/60*HourHeight
	height := (visibleEnd - visibleStart) / 60 * HourHeight
	availableWidth := float64(canvasWidth) - TimeColumnWidth - 2*Margin
	eventWidth := availableWidth / float64(pe.TotalColumns)
	left := TimeColumnWidth + Margin + float64(pe.Column)*eventWidth

	height = math.Max(height, minEventHeight)

	for _, v := range []float64{left, top, height, eventWidth} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Rect{}, false
		}
	}
	if left < 0 || top < 0 || height <= 0 || eventWidth <= 0 {
		return Rect{}, false
	}

	maxBottom := float64(canvasHeight) - bottomInset
	if top >= maxBottom {
		return Rect{}, false
	}
	if top+height > maxBottom {
		height = maxBottom - top
	}
	if height <= 0 {
		return Rect{}, false
	}

	return Rect{X: left, Y: top, W: eventWidth, H: height}, true
}
