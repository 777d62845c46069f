package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "cordex/internal/errors"
	"cordex/internal/services"
)

// SearchService is the part of the explorer service the search handler uses.
type SearchService interface {
	Search(ctx context.Context, req services.SearchRequest) (*services.SearchResult, error)
}

// SearchHandler serves the interactive paper search.
type SearchHandler struct {
	service      SearchService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service SearchService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SearchHandler {
	return &SearchHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "search_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the search routes
func (h *SearchHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.Search)
	return r
}

// Search handles GET /api/search?q=&year=&journal=&limit=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := services.SearchRequest{
		Query:   query.Get("q"),
		Journal: query.Get("journal"),
	}

	if raw := query.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1000 || year > 2999 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year",
				"year must be a four digit calendar year"))
			return
		}
		req.Year = year
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit",
				"limit must be a positive integer"))
			return
		}
		req.Limit = limit
	}

	result, err := h.service.Search(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
		"count":  len(result.Papers),
	})
}
