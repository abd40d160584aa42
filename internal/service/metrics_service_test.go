package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()

	m.RecordScheduleQuery("schedule_day", "day_specific")
	m.RecordScheduleQuery("schedule_day", "day_specific")
	m.RecordScheduleQuery("", "status")
	m.RecordOverlayRead("unavailable")
	m.RecordTermLookup("cache")
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.ObserveHTTPRequest(http.MethodPost, "/schedule/query", http.StatusOK, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.scheduleQueries.WithLabelValues("schedule_day", "day_specific")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scheduleQueries.WithLabelValues("unsupported", "status")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.overlayReads.WithLabelValues("unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.termLookups.WithLabelValues("cache")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("POST", "/schedule/query", "200")))
}

func TestMetricsServiceHandlerServesRegistry(t *testing.T) {
	m := NewMetricsService()
	m.RecordOverlayRead("ok")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `schedule_overlay_reads_total{status="ok"} 1`)
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	m.RecordScheduleQuery("schedule_all", "all")
	m.RecordOverlayRead("ok")
	m.ObserveDBQuery("x", time.Second)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
