package service

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"
)

const (
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800
)

// ThumbnailImage shrinks a rendered snapshot to a JPEG preview.
// size: "thumb" or "medium"
func ThumbnailImage(imageData []byte, size string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var maxDim, quality int
	switch size {
	case "thumb":
		maxDim, quality = maxSizeThumb, qualityThumb
	case "medium":
		maxDim, quality = maxSizeMedium, qualityMedium
	default:
		return nil, fmt.Errorf("unknown thumbnail size %q", size)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	slog.Debug("✓ Thumbnail created", "size", size, "width", img.Bounds().Dx(), "bytes", buf.Len())
	return buf.Bytes(), nil
}
