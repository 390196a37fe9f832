package handler

import (
	"net/http"
)

// Handlers groups every HTTP handler of the service
type Handlers struct {
	Templates *TemplateHandler
	Sections  *SectionHandler
	Reports   *ReportHandler
	Uploads   *UploadHandler
	Metrics   http.Handler
}

// Register mounts all routes on mux (Go 1.22+ method and wildcard patterns).
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", HealthCheck)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	// Templates. Literal segments win over {id}.
	mux.HandleFunc("GET /api/templates", h.Templates.ListTemplates)
	mux.HandleFunc("POST /api/templates", h.Templates.CreateTemplate)
	mux.HandleFunc("GET /api/templates/name-available", h.Templates.CheckName)
	mux.HandleFunc("POST /api/templates/validate", h.Templates.ValidateSections)
	mux.HandleFunc("POST /api/templates/import", h.Templates.ImportMarkdown)
	mux.HandleFunc("GET /api/templates/{id}", h.Templates.GetTemplate)
	mux.HandleFunc("PATCH /api/templates/{id}", h.Templates.UpdateTemplate)
	mux.HandleFunc("DELETE /api/templates/{id}", h.Templates.DeleteTemplate)
	mux.HandleFunc("POST /api/templates/{id}/default", h.Templates.SetDefault)
	mux.HandleFunc("DELETE /api/templates/{id}/default", h.Templates.ClearDefault)
	mux.HandleFunc("POST /api/templates/{id}/duplicate", h.Templates.DuplicateTemplate)
	mux.HandleFunc("GET /api/templates/{id}/export", h.Templates.ExportMarkdown)

	// Sections
	mux.HandleFunc("POST /api/templates/{id}/sections", h.Sections.AddSection)
	mux.HandleFunc("PATCH /api/templates/{id}/sections/{sectionId}", h.Sections.EditSection)
	mux.HandleFunc("DELETE /api/templates/{id}/sections/{sectionId}", h.Sections.RemoveSection)
	mux.HandleFunc("POST /api/templates/{id}/sections/{sectionId}/duplicate", h.Sections.DuplicateSection)
	mux.HandleFunc("POST /api/templates/{id}/sections/{sectionId}/images", h.Sections.InsertImage)

	// Reports
	mux.HandleFunc("GET /api/report-variables", h.Reports.ListVariables)
	mux.HandleFunc("POST /api/report-previews", h.Reports.PreviewDefault)
	mux.HandleFunc("POST /api/templates/{id}/preview", h.Reports.Preview)
	mux.HandleFunc("POST /api/templates/{id}/render", h.Reports.Render)

	// Uploads
	mux.HandleFunc("POST /api/uploads/images", h.Uploads.UploadImage)
}
