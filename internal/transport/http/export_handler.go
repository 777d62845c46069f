package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "cordex/internal/errors"
	"cordex/internal/exporter"
)

// ExportHandler streams aggregate views as CSV or XLSX downloads.
type ExportHandler struct {
	service      StatsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(service StatsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/csv/{aggregate}", h.ExportCSV)
	r.Get("/xlsx", h.ExportXLSX)
	return r
}

// ExportCSV handles GET /api/export/csv/{aggregate}
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	aggregate := chi.URLParam(r, "aggregate")

	var options exporter.WriteOptions
	switch aggregate {
	case "years":
		years, err := h.service.Years(r.Context())
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		options = exporter.YearOptions(years)
	case "journals":
		rows, err := h.service.Journals(r.Context(), 0)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		options = exporter.CountOptions("journal", rows)
	case "sources":
		rows, err := h.service.Sources(r.Context(), 0)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		options = exporter.CountOptions("source", rows)
	case "keywords":
		rows, err := h.service.Keywords(r.Context(), 0)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		options = exporter.CountOptions("keyword", rows)
	default:
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("aggregate",
			fmt.Sprintf("unknown aggregate: %s", aggregate)))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="cord19_%s.csv"`, aggregate))

	writer := exporter.NewCSVWriter("")
	if err := writer.WriteTo(w, options); err != nil {
		// Headers are already on the wire; log instead of re-rendering.
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.String("aggregate", aggregate),
			slog.String("error", err.Error()))
	}
}

// ExportXLSX handles GET /api/export/xlsx
func (h *ExportHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.workbookData(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="cord19_aggregates.xlsx"`)

	if err := exporter.StreamWorkbook(w, *data); err != nil {
		h.logger.ErrorContext(r.Context(), "xlsx export failed",
			slog.String("error", err.Error()))
	}
}

func (h *ExportHandler) workbookData(r *http.Request) (*exporter.WorkbookData, error) {
	ctx := r.Context()

	overview, err := h.service.Overview(ctx)
	if err != nil {
		return nil, err
	}
	years, err := h.service.Years(ctx)
	if err != nil {
		return nil, err
	}
	journals, err := h.service.Journals(ctx, 0)
	if err != nil {
		return nil, err
	}
	sources, err := h.service.Sources(ctx, 0)
	if err != nil {
		return nil, err
	}
	keywords, err := h.service.Keywords(ctx, 0)
	if err != nil {
		return nil, err
	}

	return &exporter.WorkbookData{
		Summary:   overview.Summary,
		Abstracts: overview.Abstracts,
		Years:     years,
		Journals:  journals,
		Sources:   sources,
		Keywords:  keywords,
	}, nil
}
