// Package http carries the chi handlers for the explorer API and the
// embedded dashboard page.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"cordex/internal/analytics"
	apierrors "cordex/internal/errors"
	"cordex/internal/services"
)

// maxTopK bounds the k query parameter on every top-K view.
const maxTopK = 200

// StatsService is the part of the explorer service the stats handler uses.
type StatsService interface {
	Overview(ctx context.Context) (*services.Overview, error)
	Years(ctx context.Context) ([]analytics.YearRow, error)
	Journals(ctx context.Context, k int) ([]analytics.CountRow, error)
	Sources(ctx context.Context, k int) ([]analytics.CountRow, error)
	Keywords(ctx context.Context, k int) ([]analytics.CountRow, error)
}

// StatsHandler serves the aggregate views.
type StatsHandler struct {
	service      StatsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service StatsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *StatsHandler {
	return &StatsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "stats_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the stats routes
func (h *StatsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/overview", h.GetOverview)
	r.Get("/years", h.GetYears)
	r.Get("/journals", h.GetJournals)
	r.Get("/sources", h.GetSources)
	r.Get("/keywords", h.GetKeywords)

	return r
}

// GetOverview handles GET /api/stats/overview
func (h *StatsHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   overview,
	})
}

// GetYears handles GET /api/stats/years
func (h *StatsHandler) GetYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.Years(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   years,
		"count":  len(years),
	})
}

// GetJournals handles GET /api/stats/journals?k=
func (h *StatsHandler) GetJournals(w http.ResponseWriter, r *http.Request) {
	h.serveTopK(w, r, h.service.Journals)
}

// GetSources handles GET /api/stats/sources?k=
func (h *StatsHandler) GetSources(w http.ResponseWriter, r *http.Request) {
	h.serveTopK(w, r, h.service.Sources)
}

// GetKeywords handles GET /api/stats/keywords?k=
func (h *StatsHandler) GetKeywords(w http.ResponseWriter, r *http.Request) {
	h.serveTopK(w, r, h.service.Keywords)
}

func (h *StatsHandler) serveTopK(w http.ResponseWriter, r *http.Request, view func(context.Context, int) ([]analytics.CountRow, error)) {
	k, ok := h.topK(w, r)
	if !ok {
		return
	}

	rows, err := view(r.Context(), k)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	})
}

// topK parses the optional k query parameter. Zero means "use the
// configured default"; anything non-numeric or out of range is rejected.
func (h *StatsHandler) topK(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("k")
	if raw == "" {
		return 0, true
	}

	k, err := strconv.Atoi(raw)
	if err != nil || k < 1 || k > maxTopK {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("k",
			"k must be an integer between 1 and 200"))
		return 0, false
	}
	return k, true
}
