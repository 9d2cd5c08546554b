package snapshot

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"value-helper/metrics"
)

const (
	// DensityMultiplier oversamples the device pixel density for crisper text
	DensityMultiplier = 1.5
	// MaxScale caps the scale factor to bound memory use
	MaxScale = 3.0

	DefaultSettleDelay     = 300 * time.Millisecond
	MinSettleDelay         = 100 * time.Millisecond
	MaxSettleDelay         = 300 * time.Millisecond
	DefaultRenderTimeout   = 15 * time.Second
	DefaultMaxCanvasPixels = 4096 * 4096
)

// Job is what a backend needs to draw one snapshot
type Job struct {
	Scene    Scene
	Document string  // HTML rendering of Scene
	Scale    float64 // device pixels per logical pixel
}

// Backend mounts a scene on an off-screen surface
type Backend interface {
	Name() string
	Attach(ctx context.Context, job Job) (Surface, error)
}

// Surface is a mounted scene. Detach must be called exactly once the capture is done.
type Surface interface {
	Capture(ctx context.Context) (image.Image, error)
	Detach()
}

// Config tunes the rasterizer
type Config struct {
	SettleDelay     time.Duration
	Timeout         time.Duration
	MaxCanvasPixels int
	PageColor       Color
}

// DefaultConfig returns the production settings
func DefaultConfig() Config {
	return Config{
		SettleDelay:     DefaultSettleDelay,
		Timeout:         DefaultRenderTimeout,
		MaxCanvasPixels: DefaultMaxCanvasPixels,
		PageColor:       White(1),
	}
}

// Image is an encoded snapshot
type Image struct {
	PNG    []byte
	Width  int
	Height int
	Scale  float64
}

// Rasterizer turns templates into PNG images through a Backend.
// Only one render may be pending at a time.
type Rasterizer struct {
	backend Backend
	config  Config
	sem     *semaphore.Weighted
	busy    atomic.Bool
}

// NewRasterizer creates a rasterizer. Zero config fields fall back to defaults and the
// settle delay is clamped to [MinSettleDelay, MaxSettleDelay].
func NewRasterizer(backend Backend, config Config) *Rasterizer {
	defaults := DefaultConfig()
	if config.SettleDelay <= 0 {
		config.SettleDelay = defaults.SettleDelay
	}
	config.SettleDelay = min(max(config.SettleDelay, MinSettleDelay), MaxSettleDelay)
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxCanvasPixels <= 0 {
		config.MaxCanvasPixels = defaults.MaxCanvasPixels
	}
	if config.PageColor == (Color{}) {
		config.PageColor = defaults.PageColor
	}
	config.PageColor.A = 1
	return &Rasterizer{
		backend: backend,
		config:  config,
		sem:     semaphore.NewWeighted(1),
	}
}

// Backend returns the name of the backend in use
func (r *Rasterizer) Backend() string {
	return r.backend.Name()
}

// InProgress reports whether a render is pending
func (r *Rasterizer) InProgress() bool {
	return r.busy.Load()
}

// ScaleFactor maps a device pixel density to the render scale.
// Non-finite or non-positive densities count as 1.
func ScaleFactor(density float64) float64 {
	if math.IsNaN(density) || math.IsInf(density, 0) || density <= 0 {
		density = 1
	}
	return min(density*DensityMultiplier, MaxScale)
}

// OutputSize returns the pixel dimensions of an image rendered at scale
func OutputSize(scale float64) (int, int) {
	return int(math.Round(LogicalWidth * scale)), int(math.Round(LogicalHeight * scale))
}

// Render rasterizes tpl at the given device pixel density.
// It returns ErrRenderInProgress when another render is pending, ErrRenderCanceled when
// ctx is canceled by the caller, and a *RenderError for every other failure.
func (r *Rasterizer) Render(ctx context.Context, tpl Template, density float64) (*Image, error) {
	if !r.sem.TryAcquire(1) {
		metrics.ObserveRender(r.backend.Name(), "busy", 0)
		return nil, ErrRenderInProgress
	}
	r.busy.Store(true)
	defer func() {
		r.busy.Store(false)
		r.sem.Release(1)
	}()

	start := time.Now()
	img, err := r.render(ctx, tpl, density)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		slog.Info("🖼️ Snapshot rendered", "backend", r.backend.Name(), "width", img.Width, "height", img.Height, "bytes", len(img.PNG), "elapsed", elapsed)
		metrics.ObserveRender(r.backend.Name(), "ok", elapsed)
	case errors.Is(err, ErrRenderCanceled):
		slog.Debug("⏹️ Snapshot render canceled", "backend", r.backend.Name())
		metrics.ObserveRender(r.backend.Name(), "canceled", elapsed)
	default:
		slog.Error("❌ Snapshot render failed", "backend", r.backend.Name(), "reason", ReasonOf(err), "error", err)
		metrics.ObserveRender(r.backend.Name(), string(ReasonOf(err)), elapsed)
	}
	return img, err
}

func (r *Rasterizer) render(parent context.Context, tpl Template, density float64) (*Image, error) {
	if err := parent.Err(); err != nil {
		return nil, r.failure(parent, err)
	}

	scale := ScaleFactor(density)
	width, height := OutputSize(scale)
	if width*height > r.config.MaxCanvasPixels {
		return nil, &RenderError{
			Reason: ReasonOversizedCanvas,
			Err:    fmt.Errorf("canvas %dx%d exceeds the %d pixel limit", width, height, r.config.MaxCanvasPixels),
		}
	}

	scene := Layout(tpl)
	if err := scene.Validate(); err != nil {
		return nil, &RenderError{Reason: ReasonUnknown, Err: err}
	}
	if external := scene.ExternalSources(); len(external) > 0 {
		return nil, &RenderError{
			Reason: ReasonCrossOriginTaint,
			Err:    fmt.Errorf("image source %q is not embedded", external[0]),
		}
	}
	doc, err := RenderHTML(scene, tpl.Brand)
	if err != nil {
		return nil, &RenderError{Reason: ReasonUnknown, Err: err}
	}

	ctx, cancel := context.WithTimeout(parent, r.config.Timeout)
	defer cancel()

	surface, err := r.backend.Attach(ctx, Job{Scene: scene, Document: doc, Scale: scale})
	if err != nil {
		return nil, r.failure(parent, err)
	}
	defer surface.Detach()

	// let the surface finish layout and font loading before sampling it
	settle := time.NewTimer(r.config.SettleDelay)
	defer settle.Stop()
	select {
	case <-settle.C:
	case <-ctx.Done():
		return nil, r.failure(parent, ctx.Err())
	}

	raw, err := surface.Capture(ctx)
	if err != nil {
		return nil, r.failure(parent, err)
	}

	encoded, err := Finish(raw, width, height, r.config.PageColor)
	if err != nil {
		return nil, &RenderError{Reason: ReasonUnknown, Err: err}
	}
	return &Image{PNG: encoded, Width: width, Height: height, Scale: scale}, nil
}

// failure converts a backend error. A caller cancellation is reported as
// ErrRenderCanceled; the render deadline expiring is a Timeout.
func (r *Rasterizer) failure(parent context.Context, err error) error {
	if errors.Is(parent.Err(), context.Canceled) || errors.Is(err, ErrSurfaceDetached) {
		return ErrRenderCanceled
	}
	return Classify(err)
}
