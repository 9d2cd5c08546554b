package service

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"value-helper/delivery"
	"value-helper/models"
	"value-helper/repository"
	"value-helper/snapshot"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubBackend paints a flat bitmap; with hold set, Attach blocks until released or canceled
type stubBackend struct {
	hold chan struct{}
}

func (b *stubBackend) Name() string { return "stub" }

func (b *stubBackend) Attach(ctx context.Context, job snapshot.Job) (snapshot.Surface, error) {
	if b.hold != nil {
		select {
		case <-b.hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	w, h := snapshot.OutputSize(job.Scale)
	return &stubSurface{img: imaging.New(w, h, color.NRGBA{R: 79, G: 70, B: 229, A: 255})}, nil
}

type stubSurface struct{ img image.Image }

func (s *stubSurface) Capture(context.Context) (image.Image, error) { return s.img, nil }
func (s *stubSurface) Detach()                                      {}

var fixedNow = time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC)

func newTestService(backend snapshot.Backend) *ExportService {
	return NewExportService(backend, ExportOptions{
		Render:    snapshot.Config{SettleDelay: snapshot.MinSettleDelay, Timeout: 2 * time.Second},
		ShareLink: "https://value.example.com",
		Now:       func() time.Time { return fixedNow },
	})
}

func testTemplate(t *testing.T) snapshot.Template {
	t.Helper()
	svc := NewAnalysisService(repository.NewStaticCategoryRepository(nil), snapshot.TemplateOptions{CurrencySymbol: "¥"})
	tpl, err := svc.Template(context.Background(), models.AnalyzeRequest{
		Category: "food",
		Items: []models.Item{
			{ID: "1", Name: "Apples", RawPrice: "10", RawQuantity: "2"},
			{ID: "2", Name: "Pears", RawPrice: "18", RawQuantity: "4"},
		},
	}, fixedNow)
	require.NoError(t, err)
	return tpl
}

func TestExportSession_GenerateAtDensityTwo(t *testing.T) {
	svc := newTestService(&stubBackend{})
	defer svc.Shutdown()
	session := svc.Open(testTemplate(t))

	img, err := session.Generate(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 1080, img.Width)
	assert.Equal(t, 1440, img.Height)
	stored, ok := session.Image()
	require.True(t, ok)
	assert.Same(t, img, stored)
	assert.False(t, session.Busy())
}

func TestExportSession_RejectsConcurrentGenerate(t *testing.T) {
	backend := &stubBackend{hold: make(chan struct{})}
	svc := newTestService(backend)
	defer svc.Shutdown()
	session := svc.Open(testTemplate(t))

	done := make(chan error, 1)
	go func() {
		_, err := session.Generate(context.Background(), 1)
		done <- err
	}()
	require.Eventually(t, session.Busy, time.Second, 5*time.Millisecond)

	_, err := session.Generate(context.Background(), 1)
	assert.ErrorIs(t, err, snapshot.ErrRenderInProgress)

	close(backend.hold)
	require.NoError(t, <-done)
}

func TestExportSession_CloseCancelsPendingRender(t *testing.T) {
	backend := &stubBackend{hold: make(chan struct{})}
	svc := newTestService(backend)
	defer svc.Shutdown()
	session := svc.Open(testTemplate(t))

	done := make(chan error, 1)
	go func() {
		_, err := session.Generate(context.Background(), 1)
		done <- err
	}()
	require.Eventually(t, session.Busy, time.Second, 5*time.Millisecond)

	assert.True(t, svc.Close(session.ID))
	assert.ErrorIs(t, <-done, snapshot.ErrRenderCanceled)

	_, ok := session.Image()
	assert.False(t, ok)
	_, ok = svc.Get(session.ID)
	assert.False(t, ok)
	assert.False(t, svc.Close(session.ID))

	_, err := session.Generate(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestExportSession_ShareAndDownload(t *testing.T) {
	svc := newTestService(&stubBackend{})
	defer svc.Shutdown()
	session := svc.Open(testTemplate(t))
	platform := &delivery.DesktopPlatform{DownloadDir: t.TempDir()}

	_, err := session.Share(context.Background(), platform)
	assert.ErrorIs(t, err, ErrNoImage)
	_, err = session.Download(context.Background(), platform)
	assert.ErrorIs(t, err, ErrNoImage)

	_, err = session.Generate(context.Background(), 1)
	require.NoError(t, err)

	reported := delivery.NewReportedPlatform(models.DeliveryRequest{}, "", "/img")
	report, err := session.Share(context.Background(), reported)
	require.NoError(t, err)
	assert.Equal(t, delivery.StrategyManual, report.Strategy)

	result, err := session.Download(context.Background(), platform)
	require.NoError(t, err)
	assert.True(t, result.Saved)
	assert.Equal(t, "value-tip-2025-03-09.png", result.FileName)
}

func TestExportSession_Reset(t *testing.T) {
	svc := newTestService(&stubBackend{})
	defer svc.Shutdown()
	session := svc.Open(testTemplate(t))

	_, err := session.Generate(context.Background(), 1)
	require.NoError(t, err)
	session.Reset()

	_, ok := session.Image()
	assert.False(t, ok)
}

func TestExportService_SessionsExpire(t *testing.T) {
	svc := NewExportService(&stubBackend{}, ExportOptions{TTL: 20 * time.Millisecond})
	defer svc.Shutdown()
	session := svc.Open(testTemplate(t))

	require.Eventually(t, func() bool { return svc.Count() == 0 }, time.Second, 5*time.Millisecond)
	_, err := session.Generate(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrSessionClosed))
}

func TestExportService_ImmediateExpiryRemovesSession(t *testing.T) {
	svc := NewExportService(&stubBackend{}, ExportOptions{TTL: time.Nanosecond})
	defer svc.Shutdown()

	sessions := make([]*ExportSession, 0, 20)
	for range 20 {
		sessions = append(sessions, svc.Open(testTemplate(t)))
	}

	require.Eventually(t, func() bool { return svc.Count() == 0 }, time.Second, 5*time.Millisecond)
	for _, session := range sessions {
		_, ok := svc.Get(session.ID)
		assert.False(t, ok)
		assert.True(t, session.isClosed())
	}
}

func TestExportService_Shutdown(t *testing.T) {
	svc := newTestService(&stubBackend{})
	svc.Open(testTemplate(t))
	svc.Open(testTemplate(t))
	require.Equal(t, 2, svc.Count())

	svc.Shutdown()
	assert.Zero(t, svc.Count())
}
