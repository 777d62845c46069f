package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/render"
)

// HealthHandler reports process and dataset health.
type HealthHandler struct {
	version     string
	datasetPath string
	startedAt   time.Time
	logger      *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, datasetPath string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		version:     version,
		datasetPath: datasetPath,
		startedAt:   time.Now(),
		logger:      logger.With(slog.String("component", "health_handler")),
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	datasetStatus := "available"
	if _, err := os.Stat(h.datasetPath); err != nil {
		status = "degraded"
		datasetStatus = "unavailable"
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  status,
		"dataset": datasetStatus,
		"uptime":  time.Since(h.startedAt).String(),
	})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"version": h.version,
	})
}
