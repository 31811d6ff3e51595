package http

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ecdash/internal/dataprocessing"
	apierrors "ecdash/internal/errors"
)

// DataHandler handles dataset, summary and export HTTP requests.
type DataHandler struct {
	service DataServiceInterface
	logger  *slog.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(service DataServiceInterface, logger *slog.Logger) *DataHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataHandler{
		service: service,
		logger:  logger.With(slog.String("component", "data_handler")),
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/datasets", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/environmental", h.GetEnvironmental)
		r.Get("/growth", h.GetGrowth)
	})

	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/summary", h.GetSummary)
	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/warnings", h.GetWarnings)
	r.With(render.SetContentType(render.ContentTypeJSON)).Post("/reload", h.Reload)

	r.Route("/exports", func(r chi.Router) {
		r.Get("/environmental.csv", h.ExportEnvironmentalCSV)
		r.Get("/growth.xlsx", h.ExportGrowthXLSX)
	})

	return r
}

// GetEnvironmental handles GET /api/datasets/environmental
func (h *DataHandler) GetEnvironmental(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Environmental(r.Context(), r.URL.Query().Get("school"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"records": table,
		"count":   len(table),
	})
}

// GetGrowth handles GET /api/datasets/growth
func (h *DataHandler) GetGrowth(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Growth(r.Context(), r.URL.Query().Get("school"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"records": table,
		"count":   len(table),
	})
}

// GetSummary handles GET /api/summary
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetWarnings handles GET /api/warnings
func (h *DataHandler) GetWarnings(w http.ResponseWriter, r *http.Request) {
	warnings, err := h.service.Warnings(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"warnings": warnings,
		"count":    len(warnings),
	})
}

// Reload handles POST /api/reload
func (h *DataHandler) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Reload(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"environmental_records": len(snap.Environmental),
		"growth_records":        len(snap.Growth),
		"warnings":              len(snap.Warnings),
		"loaded_at":             snap.LoadedAt,
	})
}

// ExportEnvironmentalCSV handles GET /api/exports/environmental.csv.
// The export is buffered so a failure can still surface as an error
// response instead of a truncated download.
func (h *DataHandler) ExportEnvironmentalCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.ExportEnvironmentalCSV(r.Context(), &buf, r.URL.Query().Get("school")); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="environmental.csv"`)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(r.Context(), "environmental export write failed",
			slog.String("error", err.Error()))
	}
}

// ExportGrowthXLSX handles GET /api/exports/growth.xlsx, buffered like the
// CSV export.
func (h *DataHandler) ExportGrowthXLSX(w http.ResponseWriter, r *http.Request) {
	split, _ := strconv.ParseBool(r.URL.Query().Get("split"))

	var buf bytes.Buffer
	if err := h.service.ExportGrowthXLSX(r.Context(), &buf, r.URL.Query().Get("school"), split); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="growth.xlsx"`)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(r.Context(), "growth export write failed",
			slog.String("error", err.Error()))
	}
}

// respondError maps pipeline errors onto the API error vocabulary.
func (h *DataHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))

	var apiErr *apierrors.APIError
	switch {
	case errors.Is(err, dataprocessing.ErrEmptyDataset):
		apiErr = apierrors.ErrEmptyDataset
	case apierrors.IsType(err, apierrors.ErrTypeValidation):
		apiErr = apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error())
	case apierrors.IsType(err, apierrors.ErrTypeNotFound):
		apiErr = apierrors.NewWithDetails(http.StatusNotFound, "NOT_FOUND", "Resource not found", err.Error())
	case apierrors.IsType(err, apierrors.ErrTypeStorage):
		apiErr = apierrors.NewWithDetails(http.StatusInternalServerError, "FILESYSTEM_ERROR", "File system error", err.Error())
	default:
		apiErr = apierrors.ErrInternalServer
	}

	if renderErr := render.Render(w, r, apierrors.NewErrorResponse(apiErr)); renderErr != nil {
		apierrors.WriteError(w, apiErr)
	}
}
