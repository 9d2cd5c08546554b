package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return string(body)
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveAnalysis(true)
	ObserveRender("software", "ok", 120*time.Millisecond)
	ObserveDelivery("share", "clipboard_link")

	body := scrape(t)
	assert.Contains(t, body, `value_helper_analyses_total{comparable="true"}`)
	assert.Contains(t, body, `value_helper_snapshot_renders_total{backend="software",result="ok"}`)
	assert.Contains(t, body, `value_helper_snapshot_render_seconds_count{backend="software"}`)
	assert.Contains(t, body, `value_helper_deliveries_total{action="share",strategy="clipboard_link"}`)
}
