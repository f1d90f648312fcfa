// Package timeutil normalizes wire-format timestamps into calendar dates and
// time-of-day components in the configured display timezone.
package timeutil

import (
	"fmt"
	"time"
)

// DefaultZone is the display timezone used when none is configured.
const DefaultZone = "Europe/Paris"

// Normalizer converts wire timestamps into the display timezone. The zone is
// a real IANA location so historical DST transitions resolve correctly.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer returns a Normalizer for the given location. A nil location
// falls back to UTC.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

// Location returns the display timezone.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// ParseInstant parses an RFC 3339 timestamp and converts it to the display
// timezone. A timestamp that fails to parse is a hard input error for the
// event carrying it.
func (n *Normalizer) ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse instant %q: %w", s, err)
	}
	return t.In(n.loc), nil
}

// LocalDate returns midnight of the timestamp's calendar date in the display
// timezone. Used to decide which day an event belongs to.
func (n *Normalizer) LocalDate(s string) (time.Time, error) {
	t, err := n.ParseInstant(s)
	if err != nil {
		return time.Time{}, err
	}
	return Midnight(t), nil
}

// ParseDate parses a YYYY-MM-DD string as midnight in the display timezone.
func (n *Normalizer) ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, n.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Today returns midnight of the current date in the display timezone.
func (n *Normalizer) Today() time.Time {
	return Midnight(time.Now().In(n.loc))
}

// Midnight truncates t to 00:00 of its calendar date, keeping its location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate reports whether a and b fall on the same calendar date, each in
// its own location.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dateAfter reports whether a's calendar date is strictly later than b's.
func dateAfter(a, b time.Time) bool {
	return Midnight(a).After(Midnight(b))
}

// Components returns the hour and minute of t in its location.
func Components(t time.Time) (hour, minute int) {
	return t.Hour(), t.Minute()
}

// DisplayEndComponents returns the hour and minute used to render an event's
// end time against the reference day. An end falling exactly at local
// midnight of a later date means "end of the reference day" and is reported
// as hour 24, not hour 0, so the box reaches the bottom of the grid instead
// of collapsing to zero height.
func DisplayEndComponents(end, day time.Time) (hour, minute int) {
	if end.Hour() == 0 && end.Minute() == 0 && dateAfter(end, day) {
		return 24, 0
	}
	return end.Hour(), end.Minute()
}
