package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{"PORT", "BASE_URL", "SHARE_URL", "CHROME_PATH", "RENDER_BACKEND", "DATABASE_URL",
		"DOWNLOAD_DIR", "CATEGORIES_FILE", "LOG_LEVEL", "SETTLE_DELAY_MS", "RENDER_TIMEOUT_MS"} {
		t.Setenv(env, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, 300*time.Millisecond, cfg.SettleDelay())
	assert.Equal(t, 15*time.Second, cfg.RenderTimeout())
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL())
	assert.Equal(t, "auto", cfg.Render.Backend)
	assert.Equal(t, "http://localhost:8080", cfg.ShareLink())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  port: "9090"
  share_url: https://value.example.com
render:
  backend: software
  settle_delay_ms: 150
branding:
  brand: Shop Buddy
session:
  ttl: 2m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("RENDER_TIMEOUT_MS", "5000")
	t.Setenv("PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Address())
	assert.Equal(t, "software", cfg.Render.Backend)
	assert.Equal(t, 150*time.Millisecond, cfg.SettleDelay())
	assert.Equal(t, 5*time.Second, cfg.RenderTimeout())
	assert.Equal(t, "Shop Buddy", cfg.Branding.Brand)
	assert.Equal(t, "¥", cfg.Branding.CurrencySymbol)
	assert.Equal(t, 2*time.Minute, cfg.SessionTTL())
	assert.Equal(t, "https://value.example.com", cfg.ShareLink())
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("RENDER_BACKEND", "webgl")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("SETTLE_DELAY_MS", "soon")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	clearEnv(t)
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Branding.Brand = "Saved"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Saved", loaded.Branding.Brand)
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("VALUE_HELPER_CONFIG", "")
	assert.Equal(t, DefaultPath, PathFromEnv())
	t.Setenv("VALUE_HELPER_CONFIG", "/etc/value-helper.yaml")
	assert.Equal(t, "/etc/value-helper.yaml", PathFromEnv())
}
