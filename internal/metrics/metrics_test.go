package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoringMetrics_Register(t *testing.T) {
	reg := NewRegistry()
	m := NewScoringMetrics(reg)

	m.ReviewsScored.WithLabelValues("Positive").Inc()
	m.ReviewsScored.WithLabelValues("Positive").Inc()
	m.ScoringErrors.WithLabelValues("invalid_input").Inc()

	assert.InDelta(t, 2, testutil.ToFloat64(m.ReviewsScored.WithLabelValues("Positive")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ScoringErrors.WithLabelValues("invalid_input")), 1e-9)

	assert.Panics(t, func() { NewScoringMetrics(reg) }, "double registration panics")
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	m := NewScoringMetrics(reg)
	m.CacheRequests.WithLabelValues("hit").Inc()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `reviewsense_cache_requests_total{result="hit"} 1`)
}
