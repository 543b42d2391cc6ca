package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveHTTP(http.MethodPost, "/api/v1/labels", 201, 30*time.Millisecond)
	m.ObserveHTTP(http.MethodPost, "/api/v1/labels", 201, 10*time.Millisecond)
	m.ObserveRecognition("tesseract", time.Second, 6, nil)
	m.ObserveRecognition("tesseract", time.Second, 0, errors.New("boom"))
	m.ObserveAnalysis(OutcomeOK)
	m.ObserveAnalysis(OutcomeInvalidAdditive)
	m.ObserveAnalysis(OutcomeInvalidAdditive)
	m.SetActiveSessions(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/v1/labels", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recognitions.WithLabelValues("tesseract", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recognitions.WithLabelValues("tesseract", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.analyses.WithLabelValues(OutcomeInvalidAdditive)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.activeSessions))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveAnalysis(OutcomeOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `foodlens_analysis_total{outcome="ok"} 1`)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
		m.ObserveRecognition("vlm", time.Second, 1, nil)
		m.ObserveAnalysis(OutcomeOK)
		m.ObserveLLM(time.Second)
		m.SetActiveSessions(1)
	})
	assert.Nil(t, m.Registry())
}
