package delivery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakePlatform struct {
	share, shareFiles, clipboard, mobile bool

	shareErr     error
	clipboardErr error
	saveErr      error

	mu        sync.Mutex
	shared    []SharePayload
	copied    []string
	saved     map[string][]byte
	shareHold chan struct{}
}

func (f *fakePlatform) CanShare() bool      { return f.share }
func (f *fakePlatform) CanShareFiles() bool { return f.shareFiles }

func (f *fakePlatform) Share(ctx context.Context, payload SharePayload) error {
	if f.shareHold != nil {
		<-f.shareHold
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shared = append(f.shared, payload)
	return f.shareErr
}

func (f *fakePlatform) CanWriteClipboard() bool { return f.clipboard }

func (f *fakePlatform) WriteClipboard(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clipboardErr != nil {
		return f.clipboardErr
	}
	f.copied = append(f.copied, text)
	return nil
}

func (f *fakePlatform) PixelDensity() float64 { return 2 }
func (f *fakePlatform) IsMobile() bool        { return f.mobile }

func (f *fakePlatform) SaveFile(ctx context.Context, name string, data []byte) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	if f.saved == nil {
		f.saved = map[string][]byte{}
	}
	f.saved[name] = data
	return "/downloads/" + name, nil
}

var testNow = time.Date(2025, time.March, 9, 10, 0, 0, 0, time.UTC)

func testRequest() Request {
	return NewRequest([]byte("png"), "https://example.com/s/1", testNow)
}

func strategies(report Report) []string {
	names := make([]string, 0, len(report.Attempts))
	for _, a := range report.Attempts {
		names = append(names, a.Strategy)
	}
	return names
}

func TestShare_NativeFileShare(t *testing.T) {
	p := &fakePlatform{share: true, shareFiles: true, clipboard: true}

	report, err := NewOrchestrator().Share(context.Background(), p, testRequest())
	require.NoError(t, err)

	assert.Equal(t, StrategyNativeFileShare, report.Strategy)
	assert.Equal(t, MessageFileShared, report.Message)
	require.Len(t, p.shared, 1)
	require.NotNil(t, p.shared[0].File)
	assert.Equal(t, "value-tip-2025-03-09.png", p.shared[0].File.Name)
	assert.Equal(t, []byte("png"), p.shared[0].File.Data)
	assert.Empty(t, p.copied)
}

func TestShare_FileShareFailureFallsToClipboard(t *testing.T) {
	p := &fakePlatform{share: true, shareFiles: true, clipboard: true, shareErr: errors.New("AbortError")}

	report, err := NewOrchestrator().Share(context.Background(), p, testRequest())
	require.NoError(t, err)

	assert.Equal(t, StrategyClipboardLink, report.Strategy)
	assert.Equal(t, []string{StrategyNativeFileShare, StrategyNativeTextShare, StrategyClipboardLink}, strategies(report))
	assert.Equal(t, Fail, report.Attempts[0].Outcome)
	assert.Equal(t, Continue, report.Attempts[1].Outcome)

	var deliveryErr *Error
	require.True(t, errors.As(report.Attempts[0].Err, &deliveryErr))
	assert.Equal(t, StrategyNativeFileShare, deliveryErr.Strategy)
	assert.Equal(t, []string{"https://example.com/s/1"}, p.copied)
}

func TestShare_TextShareWhenFilesUnsupported(t *testing.T) {
	p := &fakePlatform{share: true}

	report, err := NewOrchestrator().Share(context.Background(), p, testRequest())
	require.NoError(t, err)

	assert.Equal(t, StrategyNativeTextShare, report.Strategy)
	assert.Equal(t, MessageTextShared, report.Message)
	require.Len(t, p.shared, 1)
	assert.Nil(t, p.shared[0].File)
	assert.Equal(t, "https://example.com/s/1", p.shared[0].URL)
	assert.Contains(t, p.shared[0].Text, "https://example.com/s/1")
}

func TestShare_TextShareErrorFallsThrough(t *testing.T) {
	p := &fakePlatform{share: true, shareErr: errors.New("share failed")}

	report, err := NewOrchestrator().Share(context.Background(), p, testRequest())
	require.NoError(t, err)
	assert.Equal(t, StrategyManual, report.Strategy)
	assert.Equal(t, MessageManual, report.Message)
	assert.Equal(t, Fail, report.Attempts[1].Outcome)
}

func TestShare_NoShareCapabilityCopiesLink(t *testing.T) {
	t.Run("clipboard available", func(t *testing.T) {
		p := &fakePlatform{clipboard: true}
		report, err := NewOrchestrator().Share(context.Background(), p, testRequest())
		require.NoError(t, err)
		assert.Equal(t, StrategyClipboardLink, report.Strategy)
		assert.Equal(t, MessageLinkCopied, report.Message)
	})

	t.Run("clipboard fails", func(t *testing.T) {
		p := &fakePlatform{clipboard: true, clipboardErr: errors.New("denied")}
		report, err := NewOrchestrator().Share(context.Background(), p, testRequest())
		require.NoError(t, err)
		assert.Equal(t, StrategyManual, report.Strategy)
		assert.Len(t, report.Attempts, 4)
	})

	t.Run("nothing available", func(t *testing.T) {
		p := &fakePlatform{}
		report, err := NewOrchestrator().Share(context.Background(), p, testRequest())
		require.NoError(t, err)
		assert.Equal(t, StrategyManual, report.Strategy)
		assert.Empty(t, p.shared)
		assert.Empty(t, p.copied)
	})
}

func TestShare_ChainWithoutTerminalStrategyStillAdvises(t *testing.T) {
	o := NewOrchestrator(NativeFileShare{}, ClipboardLinkFallback{})

	report, err := o.Share(context.Background(), &fakePlatform{}, testRequest())
	require.NoError(t, err)
	assert.Equal(t, StrategyManual, report.Strategy)
	assert.Equal(t, MessageManual, report.Message)
}

func TestShare_RejectsWhilePending(t *testing.T) {
	p := &fakePlatform{share: true, shareFiles: true, shareHold: make(chan struct{})}
	o := NewOrchestrator()

	done := make(chan error, 1)
	go func() {
		_, err := o.Share(context.Background(), p, testRequest())
		done <- err
	}()
	require.Eventually(t, o.InProgress, time.Second, 5*time.Millisecond)

	_, err := o.Share(context.Background(), p, testRequest())
	assert.ErrorIs(t, err, ErrDeliveryInProgress)

	close(p.shareHold)
	require.NoError(t, <-done)
	assert.False(t, o.InProgress())
}

func TestShare_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewOrchestrator().Share(ctx, &fakePlatform{}, testRequest())
	assert.ErrorIs(t, err, ErrDeliveryCanceled)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "continue", Continue.String())
	assert.Equal(t, "fail", Fail.String())
}
