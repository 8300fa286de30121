package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BreakerReporter exposes the upstream circuit breaker state
type BreakerReporter interface {
	BreakerState() string
}

// ActiveCounter reports the number of live sessions
type ActiveCounter interface {
	Active() int
}

// HealthHandler answers liveness checks
type HealthHandler struct {
	upstream BreakerReporter
	sessions ActiveCounter
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(upstream BreakerReporter, sessions ActiveCounter) *HealthHandler {
	return &HealthHandler{upstream: upstream, sessions: sessions}
}

// Health handles GET /health. An open breaker degrades the status but the
// gateway itself still answers 200.
func (h *HealthHandler) Health(c *gin.Context) {
	breaker := h.upstream.BreakerState()
	status := "ok"
	if breaker == "open" {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          status,
		"message":         "Iceberg dashboard is running",
		"upstream":        breaker,
		"active_sessions": h.sessions.Active(),
	})
}
