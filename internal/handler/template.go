package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"quizdash/internal/config"
	"quizdash/internal/domain"
	models "quizdash/internal/domain/models/report"
	reportSvc "quizdash/internal/domain/services/report"
	"quizdash/internal/httputil"
)

// TemplateHandler handles report template HTTP requests
type TemplateHandler struct {
	templates reportSvc.TemplateService
	transfer  reportSvc.TransferService
	logger    *slog.Logger
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templates reportSvc.TemplateService, transfer reportSvc.TransferService, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{
		templates: templates,
		transfer:  transfer,
		logger:    logger,
	}
}

// updateTemplateBody is the PATCH body. quiz_id distinguishes absent from null.
type updateTemplateBody struct {
	Name     *string                 `json:"name"`
	Sections []models.Section        `json:"sections"`
	QuizID   httputil.OptionalString `json:"quiz_id"`
}

type setDefaultBody struct {
	QuizID httputil.OptionalString `json:"quiz_id"`
}

type validateBody struct {
	Sections []models.Section `json:"sections"`
}

type validateResponse struct {
	Valid    bool                      `json:"valid"`
	Sections []reportSvc.SectionReport `json:"sections"`
}

// ListTemplates returns the caller's templates plus global templates
// GET /api/templates
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	templates, err := h.templates.ListVisible(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, templates)
}

// CheckName reports whether a template name is free for the caller
// GET /api/templates/name-available?name=...&exclude=<id>
func (h *TemplateHandler) CheckName(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		httputil.RespondError(w, http.StatusBadRequest, "name query parameter is required")
		return
	}
	var exclude *string
	if id := r.URL.Query().Get("exclude"); id != "" {
		exclude = &id
	}

	available, err := h.templates.IsNameAvailable(r.Context(), name, userID, exclude)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"available": available})
}

// CreateTemplate creates a template owned by the caller
// POST /api/templates
func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req reportSvc.CreateTemplateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, &domain.ValidationError{Message: err.Error()})
		return
	}
	req.OwnerID = &userID

	tpl, err := h.templates.CreateTemplate(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, tpl)
}

// GetTemplate retrieves a template
// GET /api/templates/{id}
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	tpl, err := h.templates.GetTemplate(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tpl)
}

// UpdateTemplate patches name, sections and/or quiz scope
// PATCH /api/templates/{id}
func (h *TemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body updateTemplateBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, &domain.ValidationError{Message: err.Error()})
		return
	}

	tpl, err := h.templates.UpdateTemplate(r.Context(), userID, r.PathValue("id"), &reportSvc.UpdateTemplateRequest{
		Name:     body.Name,
		Sections: body.Sections,
		QuizID: reportSvc.OptionalScope{
			Present: body.QuizID.Present,
			Value:   body.QuizID.Value,
		},
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tpl)
}

// DeleteTemplate removes a template
// DELETE /api/templates/{id}
func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.templates.DeleteTemplate(r.Context(), userID, r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetDefault makes the template the default of a quiz scope.
// Without a quiz_id in the body the template's current scope is used.
// POST /api/templates/{id}/default
func (h *TemplateHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	var body setDefaultBody
	if err := httputil.ParseOptionalJSON(w, r, &body); err != nil {
		handleError(w, &domain.ValidationError{Message: err.Error()})
		return
	}

	scope := body.QuizID.Value
	if !body.QuizID.Present {
		current, err := h.templates.GetTemplate(r.Context(), userID, id)
		if err != nil {
			handleError(w, err)
			return
		}
		scope = current.QuizID
	}

	tpl, err := h.templates.SetDefault(r.Context(), userID, id, scope)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tpl)
}

// ClearDefault unsets the template's default flag
// DELETE /api/templates/{id}/default
func (h *TemplateHandler) ClearDefault(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	tpl, err := h.templates.ClearDefault(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tpl)
}

// DuplicateTemplate copies a template under a "(Copy)" name
// POST /api/templates/{id}/duplicate
func (h *TemplateHandler) DuplicateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	tpl, err := h.templates.DuplicateTemplate(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, tpl)
}

// ValidateSections runs the save gate without persisting anything
// POST /api/templates/validate
func (h *TemplateHandler) ValidateSections(w http.ResponseWriter, r *http.Request) {
	var body validateBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, &domain.ValidationError{Message: err.Error()})
		return
	}

	reports := h.templates.ValidateSections(body.Sections)
	valid := true
	for _, report := range reports {
		valid = valid && report.IsValid
	}

	httputil.RespondJSON(w, http.StatusOK, validateResponse{Valid: valid, Sections: reports})
}

// ImportMarkdown creates a template from a markdown document.
// Accepts either JSON {name, quiz_id, markdown} or a multipart form with a "file" field.
// POST /api/templates/import
func (h *TemplateHandler) ImportMarkdown(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req reportSvc.ImportMarkdownRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, err := readMultipartFile(w, r, "file", config.MaxMarkdownImportBytes)
		if err != nil {
			handleError(w, err)
			return
		}
		req.Markdown = string(file.Data)
		req.Name = r.FormValue("name")
		if quizID := r.FormValue("quiz_id"); quizID != "" {
			req.QuizID = &quizID
		}
	} else if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, &domain.ValidationError{Message: err.Error()})
		return
	}
	req.OwnerID = &userID

	tpl, err := h.transfer.ImportMarkdown(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Info("template imported from markdown",
		"id", tpl.ID,
		"sections", len(tpl.Sections),
		"user_id", userID,
	)

	httputil.RespondJSON(w, http.StatusCreated, tpl)
}

// ExportMarkdown downloads a template as markdown
// GET /api/templates/{id}/export
func (h *TemplateHandler) ExportMarkdown(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	markdown, err := h.transfer.ExportMarkdown(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondFile(w, "text/markdown; charset=utf-8", id+".md", []byte(markdown))
}
