package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termfolio/backend/internal/providers/terminal"
	"github.com/GriffinCanCode/termfolio/backend/internal/shared/id"
)

const (
	serviceName = "termfolio"
	version     = "0.3.0"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	manager *terminal.Manager
	source  terminal.ContentSource
	metrics *monitoring.Metrics
	started time.Time
}

// NewHandlers creates a new handler set. metrics may be nil.
func NewHandlers(manager *terminal.Manager, source terminal.ContentSource, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		manager: manager,
		source:  source,
		metrics: metrics,
		started: time.Now(),
	}
}

// Root describes the service
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "online",
		"service":  serviceName,
		"version":  version,
		"terminal": "/terminal",
	})
}

// Health reports liveness, load and the content version being served
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":          "healthy",
		"active_sessions": h.manager.Count(),
		"content_version": h.source.Current().Version,
		"uptime_seconds":  time.Since(h.started).Seconds(),
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// ListSessions lists live sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions := h.manager.ListSessions()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// DeleteSession terminates a session
func (h *Handlers) DeleteSession(c *gin.Context) {
	sessionID := id.SessionID(c.Param("id"))

	if err := h.manager.Kill(sessionID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, terminal.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
