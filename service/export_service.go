package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"value-helper/delivery"
	"value-helper/metrics"
	"value-helper/snapshot"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids
	ErrSessionNotFound = errors.New("export session not found")
	// ErrSessionClosed is returned by actions on a dismissed session
	ErrSessionClosed = errors.New("export session closed")
	// ErrNoImage is returned by share and download before an image was generated
	ErrNoImage = errors.New("no snapshot image generated yet")
)

// DefaultSessionTTL is how long an export session is kept in memory
const DefaultSessionTTL = 10 * time.Minute

// ExportOptions configures an ExportService
type ExportOptions struct {
	Render     snapshot.Config
	TTL        time.Duration
	ShareLink  string
	FilePrefix string
	Now        func() time.Time
}

// ExportService keeps the in-memory export sessions, one per opened share dialog.
// Sessions expire after the TTL; nothing is persisted.
type ExportService struct {
	backend snapshot.Backend
	opts    ExportOptions

	mu       sync.RWMutex
	sessions map[string]*ExportSession
}

// NewExportService creates a new ExportService
func NewExportService(backend snapshot.Backend, opts ExportOptions) *ExportService {
	if opts.TTL <= 0 {
		opts.TTL = DefaultSessionTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ExportService{
		backend:  backend,
		opts:     opts,
		sessions: make(map[string]*ExportSession),
	}
}

// Ensure ExportService implements ExportServiceInterface
var _ ExportServiceInterface = (*ExportService)(nil)

// Open starts a session for tpl
func (s *ExportService) Open(tpl snapshot.Template) *ExportSession {
	ctx, cancel := context.WithCancel(context.Background())
	session := &ExportSession{
		ID:           uuid.NewString(),
		template:     tpl,
		rasterizer:   snapshot.NewRasterizer(s.backend, s.opts.Render),
		orchestrator: delivery.NewOrchestrator(),
		shareLink:    s.opts.ShareLink,
		filePrefix:   s.opts.FilePrefix,
		now:          s.opts.Now,
		ctx:          ctx,
		cancel:       cancel,
	}

	id := session.ID

	// the expiry callback takes s.mu, so it cannot run before the insert
	s.mu.Lock()
	s.sessions[id] = session
	session.expiry = time.AfterFunc(s.opts.TTL, func() {
		if s.Close(id) {
			slog.Debug("⌛ Export session expired", "session", id)
		}
	})
	s.mu.Unlock()

	slog.Info("🆕 Export session opened", "session", id, "entries", tpl.TotalEntries())
	return session
}

// Get returns an open session
func (s *ExportService) Get(id string) (*ExportSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Close dismisses a session, canceling any render in flight. It reports whether the session existed.
func (s *ExportService) Close(id string) bool {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		session.Close()
	}
	return ok
}

// Count returns the number of open sessions
func (s *ExportService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown closes every session
func (s *ExportService) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*ExportSession)
	s.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

// ExportSession is one share dialog: a template, at most one generated image, and
// the busy state of its render and delivery.
type ExportSession struct {
	ID string

	template     snapshot.Template
	rasterizer   *snapshot.Rasterizer
	orchestrator *delivery.Orchestrator
	shareLink    string
	filePrefix   string
	now          func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	expiry *time.Timer

	mu     sync.Mutex
	image  *snapshot.Image
	closed bool
}

// Template returns the snapshot template of the session
func (s *ExportSession) Template() snapshot.Template {
	return s.template
}

// Busy reports whether a render or a delivery is pending
func (s *ExportSession) Busy() bool {
	return s.rasterizer.InProgress() || s.orchestrator.InProgress()
}

// Generate renders the template. A render still running when the session is closed
// returns snapshot.ErrRenderCanceled and its result is discarded.
func (s *ExportSession) Generate(ctx context.Context, density float64) (*snapshot.Image, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}
	ctx, cancel := s.bind(ctx)
	defer cancel()

	img, err := s.rasterizer.Render(ctx, s.template, density)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, snapshot.ErrRenderCanceled
	}
	s.image = img
	return img, nil
}

// Image returns the generated image, if any
func (s *ExportSession) Image() (*snapshot.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image, s.image != nil
}

// Reset discards the generated image so it can be regenerated
func (s *ExportSession) Reset() {
	s.mu.Lock()
	s.image = nil
	s.mu.Unlock()
}

// Share runs the delivery chain for the generated image
func (s *ExportSession) Share(ctx context.Context, platform delivery.Platform) (delivery.Report, error) {
	img, err := s.currentImage()
	if err != nil {
		return delivery.Report{}, err
	}
	ctx, cancel := s.bind(ctx)
	defer cancel()

	report, err := s.orchestrator.Share(ctx, platform, delivery.NewRequest(img.PNG, s.shareLink, s.now()))
	if err != nil {
		return report, err
	}
	metrics.ObserveDelivery("share", report.Strategy)
	return report, nil
}

// Download saves the generated image through the platform
func (s *ExportSession) Download(ctx context.Context, platform delivery.Platform) (delivery.DownloadResult, error) {
	img, err := s.currentImage()
	if err != nil {
		return delivery.DownloadResult{}, err
	}
	ctx, cancel := s.bind(ctx)
	defer cancel()

	result := delivery.Download(ctx, platform, img.PNG, s.filePrefix, s.now())
	strategy := "manual_save"
	if result.Saved {
		strategy = "file"
	}
	metrics.ObserveDelivery("download", strategy)
	return result, nil
}

// Close cancels pending work and drops the image. It is safe to call more than once.
func (s *ExportSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.image = nil
	s.mu.Unlock()

	if s.expiry != nil {
		s.expiry.Stop()
	}
	s.cancel()
	slog.Debug("🗑️ Export session closed", "session", s.ID)
}

func (s *ExportSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *ExportSession) currentImage() (*snapshot.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.image == nil {
		return nil, ErrNoImage
	}
	return s.image, nil
}

// bind derives a context that also ends when the session is closed
func (s *ExportSession) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
