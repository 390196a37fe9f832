package handler

import (
	"log/slog"
	"net/http"

	"quizdash/internal/config"
	"quizdash/internal/domain"
	models "quizdash/internal/domain/models/report"
	reportSvc "quizdash/internal/domain/services/report"
	"quizdash/internal/httputil"
)

// SectionHandler edits individual sections of a stored template.
// Every operation saves through the template update path and returns the new template.
type SectionHandler struct {
	templates reportSvc.TemplateService
	uploader  reportSvc.ImageUploader
	logger    *slog.Logger
}

// NewSectionHandler creates a new section handler
func NewSectionHandler(templates reportSvc.TemplateService, uploader reportSvc.ImageUploader, logger *slog.Logger) *SectionHandler {
	return &SectionHandler{
		templates: templates,
		uploader:  uploader,
		logger:    logger,
	}
}

// AddSection appends a placeholder section
// POST /api/templates/{id}/sections
func (h *SectionHandler) AddSection(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	tpl, err := h.templates.AddSection(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, tpl)
}

// EditSection renames a section and/or replaces its content
// PATCH /api/templates/{id}/sections/{sectionId}
func (h *SectionHandler) EditSection(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req reportSvc.EditSectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, &domain.ValidationError{Message: err.Error()})
		return
	}

	tpl, err := h.templates.EditSection(r.Context(), userID, r.PathValue("id"), r.PathValue("sectionId"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tpl)
}

// RemoveSection deletes a section; the last one is refused with 422
// DELETE /api/templates/{id}/sections/{sectionId}
func (h *SectionHandler) RemoveSection(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	tpl, err := h.templates.RemoveSection(r.Context(), userID, r.PathValue("id"), r.PathValue("sectionId"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tpl)
}

// DuplicateSection appends a copy of a section
// POST /api/templates/{id}/sections/{sectionId}/duplicate
func (h *SectionHandler) DuplicateSection(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	tpl, err := h.templates.DuplicateSection(r.Context(), userID, r.PathValue("id"), r.PathValue("sectionId"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, tpl)
}

// InsertImage uploads an image and appends it to a section
// POST /api/templates/{id}/sections/{sectionId}/images (multipart: file, alt)
func (h *SectionHandler) InsertImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, sectionID := r.PathValue("id"), r.PathValue("sectionId")

	// Fail before uploading when the section does not exist.
	current, err := h.templates.GetTemplate(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}
	if !hasSection(current.Sections, sectionID) {
		handleError(w, &domain.NotFoundError{Message: "section not found: " + sectionID})
		return
	}

	file, err := readMultipartFile(w, r, "file", config.MaxImageUploadBytes)
	if err != nil {
		handleError(w, err)
		return
	}

	url, err := h.uploader.Upload(r.Context(), file.Data, file.ContentType)
	if err != nil {
		handleError(w, err)
		return
	}

	alt := r.FormValue("alt")
	if alt == "" {
		alt = file.Filename
	}

	tpl, err := h.templates.InsertImage(r.Context(), userID, id, sectionID, url, alt)
	if err != nil {
		h.logger.Warn("image uploaded but not inserted", "url", url, "template_id", id, "section_id", sectionID, "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tpl)
}

func hasSection(sections []models.Section, id string) bool {
	for _, section := range sections {
		if section.ID == id {
			return true
		}
	}
	return false
}
