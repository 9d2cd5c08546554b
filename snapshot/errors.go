package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Reason classifies a render failure
type Reason string

const (
	ReasonTimeout          Reason = "timeout"
	ReasonCrossOriginTaint Reason = "cross_origin_taint"
	ReasonOversizedCanvas  Reason = "oversized_canvas"
	ReasonUnknown          Reason = "unknown"
)

var (
	// ErrRenderInProgress is returned when a render is requested while another is pending
	ErrRenderInProgress = errors.New("a snapshot render is already in progress")
	// ErrRenderCanceled means the caller went away; it is not a failure and carries no message
	ErrRenderCanceled = errors.New("snapshot render canceled")
	// ErrSurfaceDetached is returned by a surface used after Detach
	ErrSurfaceDetached = errors.New("render surface detached")
)

// RenderError is a classified rasterization failure
type RenderError struct {
	Reason Reason
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("snapshot render failed (%s)", e.Reason)
	}
	return fmt.Sprintf("snapshot render failed (%s): %v", e.Reason, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the user for this failure
func (e *RenderError) UserMessage() string {
	switch e.Reason {
	case ReasonTimeout:
		return "Generating the image took too long. Please check your connection and try again."
	case ReasonCrossOriginTaint:
		return "The image uses resources that cannot be exported. Please try again later."
	case ReasonOversizedCanvas:
		return "The image is too large for this device. Please try again."
	default:
		return "Failed to generate the image. Please try again."
	}
}

// Classify wraps err into a RenderError.
// Errors that are already classified are returned as they are.
func Classify(err error) *RenderError {
	if err == nil {
		return nil
	}
	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		return renderErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &RenderError{Reason: ReasonTimeout, Err: err}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return &RenderError{Reason: ReasonTimeout, Err: err}
	case strings.Contains(msg, "tainted"), strings.Contains(msg, "cross-origin"), strings.Contains(msg, "cors"):
		return &RenderError{Reason: ReasonCrossOriginTaint, Err: err}
	case strings.Contains(msg, "too large"), strings.Contains(msg, "canvas size"), strings.Contains(msg, "exceeds"):
		return &RenderError{Reason: ReasonOversizedCanvas, Err: err}
	default:
		return &RenderError{Reason: ReasonUnknown, Err: err}
	}
}

// ReasonOf returns the failure reason of err, or "" when err is not a render failure
func ReasonOf(err error) Reason {
	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		return renderErr.Reason
	}
	return ""
}
