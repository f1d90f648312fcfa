package model

import "time"

// Event is a single time-blocked entry on the day view, already joined with
// the display attributes of the planning that owns it. Start and End carry
// the display timezone; Start < End is not guaranteed by upstream data and
// must be tolerated downstream.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string

	Start time.Time
	End   time.Time

	PlanningID    string
	PlanningName  string
	PlanningColor string
}

// Planning is a named calendar category that groups events and owns their
// display color.
type Planning struct {
	ID          string
	Name        string
	Color       string
	Description string
}

// PositionedEvent wraps an Event with its horizontal slot assignment.
// Column is 0-based; TotalColumns is the divisor applied to the available
// event-area width and is always >= Column+1.
type PositionedEvent struct {
	Event        Event
	Column       int
	TotalColumns int
}

// TimeWindow is the [StartHour, EndHour) hour range of the day actually
// drawn on the grid, with 0 <= StartHour < EndHour <= 24.
type TimeWindow struct {
	StartHour int
	EndHour   int
}

// VisibleHours returns the number of grid rows the window spans.
func (w TimeWindow) VisibleHours() int {
	return w.EndHour - w.StartHour
}
