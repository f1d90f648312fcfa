package render

import (
	"image"
	"image/color"
	"testing"
	"time"

	"dayview/internal/model"
)

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestDayViewEmptyGrid(t *testing.T) {
	r := New(DefaultTheme())
	win := model.TimeWindow{StartHour: 8, EndHour: 18}

	img, report := r.DayView(testDay(), nil, win, 800, 1000)
	if report.Drawn != 0 || report.Skipped != 0 {
		t.Fatalf("unexpected report for empty day: %+v", report)
	}

	b := img.Bounds()
	if b.Dx() != 800 || b.Dy() != 1000 {
		t.Fatalf("unexpected dimensions: %v", b)
	}

	theme := DefaultTheme()
	// Sample the header band away from the centered date text.
	if got := rgbaAt(img, 60, 30); got != theme.Primary {
		t.Fatalf("header pixel not primary: %+v", got)
	}
	// Inside the event area, between grid lines: plain background.
	if got := rgbaAt(img, 400, 330); got != theme.Background {
		t.Fatalf("grid pixel not background: %+v", got)
	}
	// Time label column.
	if got := rgbaAt(img, 40, 100); got != theme.Gray100 {
		t.Fatalf("label column pixel not gray100: %+v", got)
	}
}

func TestDayViewHeightGrowsToFitWindow(t *testing.T) {
	r := New(DefaultTheme())
	win := model.TimeWindow{StartHour: 0, EndHour: 24}

	img, _ := r.DayView(testDay(), nil, win, 800, 100)
	want := int(HeaderHeight + 24*HourHeight + FooterMargin)
	if img.Bounds().Dy() != want {
		t.Fatalf("expected height %d, got %d", want, img.Bounds().Dy())
	}

	// A requested height above the requirement is honored as-is.
	img, _ = r.DayView(testDay(), nil, win, 800, want+500)
	if img.Bounds().Dy() != want+500 {
		t.Fatalf("requested minimum not honored: %d", img.Bounds().Dy())
	}
}

func TestDayViewDrawsEventBox(t *testing.T) {
	r := New(DefaultTheme())
	win := model.TimeWindow{StartHour: 8, EndHour: 18}
	d := testDay()

	pe := model.PositionedEvent{
		Event: model.Event{
			UID:           "box",
			Start:         time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, paris),
			End:           time.Date(d.Year(), d.Month(), d.Day(), 10, 0, 0, 0, paris),
			PlanningColor: "#8B5CF6",
		},
		Column:       0,
		TotalColumns: 1,
	}

	img, report := r.DayView(d, []model.PositionedEvent{pe}, win, 800, 1000)
	if report.Drawn != 1 || report.Skipped != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	// The box spans y 120-180; sample well inside, away from text.
	want := Lighten(ParseHexOrDefault("#8B5CF6"), 100)
	if got := rgbaAt(img, 500, 170); got != want {
		t.Fatalf("event fill pixel %+v, want %+v", got, want)
	}
}

func TestDayViewSkipsUndrawableEvents(t *testing.T) {
	r := New(DefaultTheme())
	win := model.TimeWindow{StartHour: 8, EndHour: 18}
	d := testDay()

	zero := model.PositionedEvent{
		Event: model.Event{
			UID:   "zero",
			Start: time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, paris),
			End:   time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, paris),
		},
		Column:       0,
		TotalColumns: 1,
	}
	ok := model.PositionedEvent{
		Event: model.Event{
			UID:   "ok",
			Start: time.Date(d.Year(), d.Month(), d.Day(), 11, 0, 0, 0, paris),
			End:   time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, paris),
		},
		Column:       0,
		TotalColumns: 1,
	}

	_, report := r.DayView(d, []model.PositionedEvent{zero, ok}, win, 800, 1000)
	if report.Drawn != 1 || report.Skipped != 1 {
		t.Fatalf("expected one drawn and one skipped, got %+v", report)
	}
}
