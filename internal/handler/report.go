package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"quizdash/internal/domain"
	models "quizdash/internal/domain/models/report"
	reportSvc "quizdash/internal/domain/services/report"
	"quizdash/internal/httputil"
)

// ReportHandler previews and renders generated reports
type ReportHandler struct {
	reports reportSvc.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports reportSvc.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// ListVariables returns the placeholders available to template authors
// GET /api/report-variables
func (h *ReportHandler) ListVariables(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.reports.Variables())
}

// Preview resolves a template against a report context
// POST /api/templates/{id}/preview
func (h *ReportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var reportCtx models.ReportContext
	if err := httputil.ParseJSON(w, r, &reportCtx); err != nil {
		handleError(w, &domain.ValidationError{Message: err.Error()})
		return
	}

	payload, err := h.reports.Preview(r.Context(), userID, r.PathValue("id"), &reportCtx)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, payload)
}

// PreviewDefault resolves the default template of a quiz, falling back to the global default
// POST /api/report-previews?quiz_id=<id>
func (h *ReportHandler) PreviewDefault(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var quizID *string
	if q := r.URL.Query().Get("quiz_id"); q != "" {
		quizID = &q
	}

	var reportCtx models.ReportContext
	if err := httputil.ParseJSON(w, r, &reportCtx); err != nil {
		handleError(w, &domain.ValidationError{Message: err.Error()})
		return
	}

	payload, err := h.reports.PreviewDefault(r.Context(), userID, quizID, &reportCtx)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, payload)
}

// Render produces the final document through the external renderer
// POST /api/templates/{id}/render
func (h *ReportHandler) Render(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	var reportCtx models.ReportContext
	if err := httputil.ParseJSON(w, r, &reportCtx); err != nil {
		handleError(w, &domain.ValidationError{Message: err.Error()})
		return
	}

	data, contentType, err := h.reports.Render(r.Context(), userID, id, &reportCtx)
	if err != nil {
		h.logger.Error("report render failed", "template_id", id, "error", err)
		handleError(w, err)
		return
	}

	filename := ""
	if strings.HasPrefix(contentType, "application/pdf") {
		filename = "report-" + id + ".pdf"
	}
	httputil.RespondFile(w, contentType, filename, data)
}
