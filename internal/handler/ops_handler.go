package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-liff-api/internal/service"
	appErrors "github.com/noah-isme/schedule-liff-api/pkg/errors"
	"github.com/noah-isme/schedule-liff-api/pkg/response"
)

const readyTimeout = 2 * time.Second

type pinger interface {
	PingContext(ctx context.Context) error
}

// OpsHandler serves probes and the Prometheus scrape endpoint.
type OpsHandler struct {
	metrics *service.MetricsService
	store   pinger
}

// NewOpsHandler constructs an ops handler. metrics may be nil when disabled.
func NewOpsHandler(metrics *service.MetricsService, store pinger) *OpsHandler {
	return &OpsHandler{metrics: metrics, store: store}
}

// Prometheus godoc
// @Summary Prometheus metrics
// @Tags Ops
// @Produce plain
// @Success 200 {string} string
// @Router /metrics [get]
func (h *OpsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusNotFound)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health godoc
// @Summary Liveness probe
// @Tags Ops
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /health [get]
func (h *OpsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Ready godoc
// @Summary Readiness probe, pings the schedule store
// @Tags Ops
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 503 {object} response.Envelope
// @Router /ready [get]
func (h *OpsHandler) Ready(c *gin.Context) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()
		if err := h.store.PingContext(ctx); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, appErrors.ErrStoreUnavailable.Message))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
