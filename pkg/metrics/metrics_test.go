package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	promc "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	b, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(b)
}

func TestMetrics_Exposition(t *testing.T) {
	size := 0
	m := New(promc.NewRegistry(), func() int { return size })

	m.Requests.With("route", "/recipes", "method", "POST", "code", "201").Add(1)
	m.Latency.With("route", "/recipes", "method", "POST").Observe(0.01)
	m.Puts.Add(1)
	m.DecodeErrors.Add(2)
	size = 3

	body := scrape(t, m)
	assert.Contains(t, body, `recipebook_http_requests_total{code="201",method="POST",route="/recipes"} 1`)
	assert.Contains(t, body, `recipebook_http_request_duration_seconds_count{method="POST",route="/recipes"} 1`)
	assert.Contains(t, body, "recipebook_store_puts_total 1")
	assert.Contains(t, body, "recipebook_http_decode_errors_total 2")
	assert.Contains(t, body, "recipebook_store_recipes 3")
}

func TestMetrics_IsolatedRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(promc.NewRegistry(), func() int { return 0 })
		New(promc.NewRegistry(), func() int { return 0 })
	})
}
