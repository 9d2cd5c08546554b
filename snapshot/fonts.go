package snapshot

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// fontSet holds the parsed Go fonts, one per weight band.
// Fonts are shared; faces are not safe for concurrent use and belong to one paint.
type fontSet struct {
	regular *opentype.Font
	medium  *opentype.Font
	bold    *opentype.Font
}

func loadFonts() (*fontSet, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	medium, err := opentype.Parse(gomedium.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse medium font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	return &fontSet{regular: regular, medium: medium, bold: bold}, nil
}

// newFace creates a face for a CSS weight at a pixel size
func (f *fontSet) newFace(weight int, px float64) (font.Face, error) {
	src := f.regular
	switch {
	case weight >= 700:
		src = f.bold
	case weight >= 500:
		src = f.medium
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

const ellipsis = "..."

// fitText shortens s with a trailing ellipsis until it fits in maxWidth
func fitText(face font.Face, s string, maxWidth fixed.Int26_6) string {
	if font.MeasureString(face, s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := string(runes[:n]) + ellipsis
		if font.MeasureString(face, candidate) <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}
