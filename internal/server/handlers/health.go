package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthHandler struct {
	logger    *zap.Logger
	startTime time.Time
	ready     func() bool
}

// NewHealthHandler builds the probe handlers. ready reports whether the
// dashboard can serve requests; nil means always ready.
func NewHealthHandler(logger *zap.Logger, ready func() bool) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		startTime: time.Now(),
		ready:     ready,
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.startTime).String(),
	})
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.ready != nil && !h.ready() {
		h.logger.Warn("Readiness check failed")
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Uptime: time.Since(h.startTime).String(),
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.startTime).String(),
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
