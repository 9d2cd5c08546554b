package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"value-helper/config"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Render.Backend = "software"
	cfg.Server.BaseURL = ""
	return cfg
}

func TestInitialize_DefaultCatalogue(t *testing.T) {
	a, err := Initialize(context.Background(), testConfig())
	require.NoError(t, err)
	defer a.Close()

	categories, err := a.Analysis.Categories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 4)

	for _, path := range []string{"/ping", "/metrics", "/api/categories"} {
		rec := httptest.NewRecorder()
		a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestInitialize_CategoriesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - value: pets
    label: "Pet food"
    units: [kg, Bag]
`), 0644))

	cfg := testConfig()
	cfg.Categories.File = path
	a, err := Initialize(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	categories, err := a.Analysis.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "pets", categories[0].Value)
}

func TestInitialize_Errors(t *testing.T) {
	cfg := testConfig()
	cfg.Branding.LogoPath = filepath.Join(t.TempDir(), "missing.png")
	_, err := Initialize(context.Background(), cfg)
	assert.ErrorContains(t, err, "failed to load logo")

	cfg = testConfig()
	cfg.Render.Backend = "gpu"
	_, err = Initialize(context.Background(), cfg)
	assert.ErrorContains(t, err, "failed to initialize render backend")
}

func TestPageColor(t *testing.T) {
	assert.Equal(t, 0.0, pageColor("").A)
	c := pageColor("#102030")
	assert.Equal(t, uint8(0x10), c.R)
	assert.Equal(t, 1.0, c.A)
}
