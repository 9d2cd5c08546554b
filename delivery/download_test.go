package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDownload_Desktop(t *testing.T) {
	p := &fakePlatform{}

	result := Download(context.Background(), p, []byte("png"), "", testNow)

	assert.True(t, result.Saved)
	assert.Equal(t, "value-tip-2025-03-09.png", result.FileName)
	assert.Equal(t, "/downloads/value-tip-2025-03-09.png", result.Location)
	assert.Equal(t, MessageDownloaded, result.Message)
	assert.Equal(t, []byte("png"), p.saved["value-tip-2025-03-09.png"])
}

func TestDownload_MobileGetsInstructions(t *testing.T) {
	p := &fakePlatform{mobile: true}

	result := Download(context.Background(), p, []byte("png"), "", testNow)

	assert.False(t, result.Saved)
	assert.Equal(t, MessageMobileSave, result.Message)
	assert.Empty(t, p.saved)
}

func TestDownload_FailureBecomesAdvice(t *testing.T) {
	p := &fakePlatform{saveErr: errors.New("read-only file system")}

	result := Download(context.Background(), p, []byte("png"), "custom", testNow)

	assert.False(t, result.Saved)
	assert.Equal(t, "custom-2025-03-09.png", result.FileName)
	assert.Equal(t, MessageSaveFailed, result.Message)
}
