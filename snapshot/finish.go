package snapshot

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Finish normalizes a captured bitmap: resized to the exact output size when the
// backend rounded differently, flattened onto an opaque page colour and PNG encoded.
func Finish(src image.Image, width, height int, page Color) ([]byte, error) {
	if src == nil {
		return nil, fmt.Errorf("no bitmap captured")
	}

	var img image.Image = src
	if b := src.Bounds(); b.Dx() != width || b.Dy() != height {
		img = imaging.Resize(src, width, height, imaging.Lanczos)
	}

	page.A = 1
	canvas := imaging.New(width, height, page.NRGBA())
	canvas = imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}
