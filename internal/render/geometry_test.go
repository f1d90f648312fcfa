package render

import (
	"testing"
	"time"

	"dayview/internal/model"
)

var paris = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		panic(err)
	}
	return loc
}()

func testDay() time.Time {
	return time.Date(2025, 7, 14, 0, 0, 0, 0, paris)
}

func positioned(startHour, startMin, endHour, endMin, column, total int) model.PositionedEvent {
	d := testDay()
	return model.PositionedEvent{
		Event: model.Event{
			UID:   "test",
			Start: time.Date(d.Year(), d.Month(), d.Day(), startHour, startMin, 0, 0, paris),
			End:   time.Date(d.Year(), d.Month(), d.Day(), endHour, endMin, 0, 0, paris),
		},
		Column:       column,
		TotalColumns: total,
	}
}

func TestEventRectBasic(t *testing.T) {
	win := model.TimeWindow{StartHour: 8, EndHour: 18}
	rect, ok := EventRect(positioned(9, 0, 10, 0, 0, 1), win, testDay(), 800, 1000)
	if !ok {
		t.Fatal("expected drawable event")
	}
	// One hour past window start.
	if rect.Y != HeaderHeight+HourHeight {
		t.Fatalf("unexpected top: %v", rect.Y)
	}
	if rect.H != HourHeight {
		t.Fatalf("unexpected height: %v", rect.H)
	}
	if rect.X != TimeColumnWidth+Margin {
		t.Fatalf("unexpected left: %v", rect.X)
	}
	if rect.W != 800-TimeColumnWidth-2*Margin {
		t.Fatalf("unexpected width: %v", rect.W)
	}
}

func TestEventRectColumns(t *testing.T) {
	win := model.TimeWindow{StartHour: 8, EndHour: 18}
	full := 800 - TimeColumnWidth - 2*Margin

	left, ok := EventRect(positioned(9, 0, 10, 0, 0, 2), win, testDay(), 800, 1000)
	if !ok {
		t.Fatal("expected drawable")
	}
	right, ok := EventRect(positioned(9, 0, 10, 0, 1, 2), win, testDay(), 800, 1000)
	if !ok {
		t.Fatal("expected drawable")
	}
	if left.W != full/2 || right.W != full/2 {
		t.Fatalf("expected half width, got %v and %v", left.W, right.W)
	}
	if right.X != left.X+left.W {
		t.Fatalf("columns not adjacent: %v vs %v", left, right)
	}
}

func TestEventRectOutsideWindow(t *testing.T) {
	win := model.TimeWindow{StartHour: 8, EndHour: 18}
	if _, ok := EventRect(positioned(19, 0, 20, 0, 0, 1), win, testDay(), 800, 1000); ok {
		t.Fatal("event after window must not be drawable")
	}
	if _, ok := EventRect(positioned(5, 0, 6, 0, 0, 1), win, testDay(), 800, 1000); ok {
		t.Fatal("event before window must not be drawable")
	}
}

func TestEventRectZeroDuration(t *testing.T) {
	win := model.TimeWindow{StartHour: 8, EndHour: 18}
	if _, ok := EventRect(positioned(9, 0, 9, 0, 0, 1), win, testDay(), 800, 1000); ok {
		t.Fatal("zero-duration event must not be drawable")
	}
	// Negative duration likewise.
	if _, ok := EventRect(positioned(10, 0, 9, 0, 0, 1), win, testDay(), 800, 1000); ok {
		t.Fatal("negative-duration event must not be drawable")
	}
}

func TestEventRectMinimumHeight(t *testing.T) {
	win := model.TimeWindow{StartHour: 8, EndHour: 18}
	rect, ok := EventRect(positioned(9, 0, 9, 10, 0, 1), win, testDay(), 800, 1000)
	if !ok {
		t.Fatal("expected drawable")
	}
	if rect.H < 30 {
		t.Fatalf("short event below minimum height: %v", rect.H)
	}
}

func TestEventRectTruncatesAtBottom(t *testing.T) {
	// Canvas too short for the full box: height is cut, not rejected.
	win := model.TimeWindow{StartHour: 8, EndHour: 18}
	canvasHeight := 200
	rect, ok := EventRect(positioned(9, 0, 12, 0, 0, 1), win, testDay(), 800, canvasHeight)
	if !ok {
		t.Fatal("expected drawable with truncated height")
	}
	if rect.Y+rect.H > float64(canvasHeight)-20 {
		t.Fatalf("box exceeds usable area: %v", rect)
	}
}

func TestEventRectBelowUsableArea(t *testing.T) {
	win := model.TimeWindow{StartHour: 8, EndHour: 18}
	// Starts beyond the canvas bottom entirely.
	if _, ok := EventRect(positioned(17, 0, 18, 0, 0, 1), win, testDay(), 800, 100); ok {
		t.Fatal("event starting below the canvas must not be drawable")
	}
}

func TestEventRectMidnightEndReachesWindowBottom(t *testing.T) {
	d := testDay()
	pe := model.PositionedEvent{
		Event: model.Event{
			UID:   "late",
			Start: time.Date(d.Year(), d.Month(), d.Day(), 23, 0, 0, 0, paris),
			End:   time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, paris),
		},
		Column:       0,
		TotalColumns: 1,
	}
	win := model.TimeWindow{StartHour: 22, EndHour: 24}
	rect, ok := EventRect(pe, win, d, 800, 1000)
	if !ok {
		t.Fatal("expected drawable")
	}
	// 23:00-24:00 is the second grid hour of the window.
	if rect.Y != HeaderHeight+HourHeight || rect.H != HourHeight {
		t.Fatalf("midnight-crossing box misplaced: %+v", rect)
	}
}

func TestEventRectInvalidDivisor(t *testing.T) {
	win := model.TimeWindow{StartHour: 8, EndHour: 18}
	if _, ok := EventRect(positioned(9, 0, 10, 0, 0, 0), win, testDay(), 800, 1000); ok {
		t.Fatal("zero totalColumns must not be drawable")
	}
}
