// Package delivery gets a rendered snapshot to the user through an ordered chain of
// platform dependent strategies. Platform capabilities are injected, never probed globally.
package delivery

import (
	"context"
	"errors"
)

// ErrUnsupported is returned by platform actions the platform does not offer
var ErrUnsupported = errors.New("not supported on this platform")

// Platform abstracts the share, clipboard and file APIs of the user's device
type Platform interface {
	CanShare() bool
	CanShareFiles() bool
	Share(ctx context.Context, payload SharePayload) error
	CanWriteClipboard() bool
	WriteClipboard(ctx context.Context, text string) error
	PixelDensity() float64
	IsMobile() bool
	// SaveFile stores data under name and returns where it ended up
	SaveFile(ctx context.Context, name string, data []byte) (string, error)
}

// SharePayload is handed to the native share sheet. File is nil for text-only shares.
type SharePayload struct {
	Title string
	Text  string
	URL   string
	File  *File
}

// File is an attachment of a share
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}
