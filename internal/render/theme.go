package render

import "image/color"

// DefaultPlanningColor is used for events whose planning is unknown or
// carries an unparseable color.
const DefaultPlanningColor = "#8B5CF6"

// Theme maps named display roles to colors. It is built once at process
// start and read-only afterwards; renders never mutate it.
type Theme struct {
	Primary    color.RGBA
	Background color.RGBA
	Surface    color.RGBA
	Foreground color.RGBA

	Gray100 color.RGBA
	Gray300 color.RGBA
	Gray500 color.RGBA
	Gray600 color.RGBA

	White color.RGBA
}

// DefaultTheme returns the CalenDO palette.
func DefaultTheme() Theme {
	return Theme{
		Primary:    mustHex("#6B46C1"),
		Background: mustHex("#FAF5FF"),
		Surface:    mustHex("#FFFFFF"),
		Foreground: mustHex("#1A202C"),
		Gray100:    mustHex("#F7FAFC"),
		Gray300:    mustHex("#E2E8F0"),
		Gray500:    mustHex("#A0ADB8"),
		Gray600:    mustHex("#718096"),
		White:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// ParseHex parses a #RRGGBB color. Malformed input reports ok=false; the
// caller falls back rather than failing the event.
func ParseHex(s string) (color.RGBA, bool) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	var out [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexNibble(s[2*i])
		lo, ok2 := hexNibble(s[2*i+1])
		if !ok1 || !ok2 {
			return color.RGBA{}, false
		}
		out[i] = hi<<4 | lo
	}
	return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}, true
}

// ParseHexOrDefault parses a planning color, falling back to the default
// planning purple when the value is malformed.
func ParseHexOrDefault(s string) color.RGBA {
	if c, ok := ParseHex(s); ok {
		return c
	}
	c, _ := ParseHex(DefaultPlanningColor)
	return c
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

func mustHex(s string) color.RGBA {
	c, ok := ParseHex(s)
	if !ok {
		panic("bad theme color: " + s)
	}
	return c
}

// Lighten raises each channel by the given amount, saturating at 255. Event
// boxes are filled with a lightened tint of their planning color.
func Lighten(c color.RGBA, by uint8) color.RGBA {
	add := func(v uint8) uint8 {
		sum := int(v) + int(by)
		if sum > 255 {
			return 255
		}
		return uint8(sum)
	}
	return color.RGBA{R: add(c.R), G: add(c.G), B: add(c.B), A: 255}
}
