package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/disintegration/imaging"
)

// ChromeBackend renders the HTML document of a scene in headless Chrome
type ChromeBackend struct {
	execPath string
}

// NewChromeBackend creates a backend. An empty path lets chromedp find the browser.
func NewChromeBackend(execPath string) *ChromeBackend {
	return &ChromeBackend{execPath: execPath}
}

var _ Backend = (*ChromeBackend)(nil)

func (b *ChromeBackend) Name() string { return BackendChrome }

// Attach starts a browser, emulates the logical viewport at the job's scale and loads the document
func (b *ChromeBackend) Attach(ctx context.Context, job Job) (Surface, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("force-color-profile", "srgb"),
	)
	if b.execPath != "" {
		opts = append(opts, chromedp.ExecPath(b.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	surface := &chromeSurface{
		ctx: tabCtx,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
	}

	var fontsReady bool
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(job.Scene.Width), int64(job.Scene.Height), chromedp.EmulateScale(job.Scale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, job.Document).Do(ctx)
		}),
		chromedp.WaitReady("[data-share-template]"),
		chromedp.Evaluate(`document.fonts.ready.then(() => true)`, &fontsReady, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		surface.Detach()
		return nil, fmt.Errorf("failed to load snapshot document in Chrome: %w", err)
	}
	return surface, nil
}

type chromeSurface struct {
	mu       sync.Mutex
	ctx      context.Context
	cancel   func()
	detached bool
}

// Capture screenshots the viewport. Chrome applies the device scale factor, so the
// bitmap is already at output resolution.
func (s *chromeSurface) Capture(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return nil, ErrSurfaceDetached
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf []byte
	if err := chromedp.Run(s.ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("failed to capture snapshot: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}
	return img, nil
}

func (s *chromeSurface) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return
	}
	s.detached = true
	s.cancel()
}
