package render

import (
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	c, ok := ParseHex("#6B46C1")
	if !ok {
		t.Fatal("expected valid color")
	}
	if c != (color.RGBA{R: 0x6B, G: 0x46, B: 0xC1, A: 255}) {
		t.Fatalf("unexpected color: %+v", c)
	}

	// Leading # is optional.
	if _, ok := ParseHex("FFFFFF"); !ok {
		t.Fatal("expected bare hex to parse")
	}

	for _, bad := range []string{"", "#FFF", "#GGGGGG", "#12345", "not-a-color"} {
		if _, ok := ParseHex(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestParseHexOrDefault(t *testing.T) {
	want, _ := ParseHex(DefaultPlanningColor)
	if got := ParseHexOrDefault("garbage"); got != want {
		t.Fatalf("expected default planning color, got %+v", got)
	}
	if got := ParseHexOrDefault("#112233"); got == want {
		t.Fatal("valid color should not be replaced by the default")
	}
}

func TestLightenSaturates(t *testing.T) {
	c := Lighten(color.RGBA{R: 200, G: 10, B: 255, A: 255}, 100)
	if c.R != 255 || c.G != 110 || c.B != 255 {
		t.Fatalf("unexpected lightened color: %+v", c)
	}
	if c.A != 255 {
		t.Fatalf("alpha must stay opaque: %+v", c)
	}
}
