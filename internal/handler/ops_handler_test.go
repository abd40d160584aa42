package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-liff-api/internal/service"
	appErrors "github.com/noah-isme/schedule-liff-api/pkg/errors"
)

type pingerStub struct{ err error }

func (p pingerStub) PingContext(ctx context.Context) error { return p.err }

func TestOpsHandlerHealth(t *testing.T) {
	h := NewOpsHandler(nil, nil)
	c, w := newTestContext(http.MethodGet, "/health", "", nil)

	h.Health(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["ok"])
}

func TestOpsHandlerReadyStoreDown(t *testing.T) {
	h := NewOpsHandler(nil, pingerStub{err: errors.New("connection refused")})
	c, w := newTestContext(http.MethodGet, "/ready", "", nil)

	h.Ready(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, appErrors.ErrStoreUnavailable.Code, errorCode(t, w))
}

func TestOpsHandlerReadyStoreUp(t *testing.T) {
	h := NewOpsHandler(nil, pingerStub{})
	c, w := newTestContext(http.MethodGet, "/ready", "", nil)

	h.Ready(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOpsHandlerPrometheusDisabled(t *testing.T) {
	h := NewOpsHandler(nil, nil)
	c, w := newTestContext(http.MethodGet, "/metrics", "", nil)

	h.Prometheus(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOpsHandlerPrometheusServesRegistry(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordScheduleQuery("schedule_day", "normal")
	h := NewOpsHandler(metrics, nil)
	c, w := newTestContext(http.MethodGet, "/metrics", "", nil)

	h.Prometheus(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "schedule_day")
}
