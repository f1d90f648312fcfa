package render

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Embedded Go fonts keep text metrics deterministic across hosts; nothing is
// read from the filesystem.
var (
	fontOnce    sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
)

func loadFonts() {
	fontOnce.Do(func() {
		var err error
		regularFont, err = opentype.Parse(goregular.TTF)
		if err != nil {
			panic(err) // embedded font, cannot fail
		}
		boldFont, err = opentype.Parse(gobold.TTF)
		if err != nil {
			panic(err)
		}
	})
}

// newFace returns a font.Face at the given point size.
func newFace(size float64, bold bool) font.Face {
	loadFonts()
	fnt := regularFont
	if bold {
		fnt = boldFont
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		panic(err)
	}
	return face
}
