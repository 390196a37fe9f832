package report

import (
	"context"

	models "quizdash/internal/domain/models/report"
)

// ReportService prepares and renders generated reports from templates.
type ReportService interface {
	// Variables lists the placeholders template authors can use
	Variables() []models.VariableDefinition

	// Preview resolves a template against a report context without rendering
	Preview(ctx context.Context, ownerID, templateID string, reportCtx *models.ReportContext) (*RenderPayload, error)

	// PreviewDefault resolves the default template of a quiz scope (falling back to the global default)
	PreviewDefault(ctx context.Context, ownerID string, quizID *string, reportCtx *models.ReportContext) (*RenderPayload, error)

	// Render prepares the payload and hands it to the external renderer
	Render(ctx context.Context, ownerID, templateID string, reportCtx *models.ReportContext) ([]byte, string, error)
}

// TransferService converts templates to and from markdown documents.
type TransferService interface {
	// ImportMarkdown creates a template whose sections come from the markdown's level-2 headings
	ImportMarkdown(ctx context.Context, req *ImportMarkdownRequest) (*models.Template, error)

	// ExportMarkdown renders a template as a markdown document
	ExportMarkdown(ctx context.Context, ownerID, id string) (string, error)
}

// ImportMarkdownRequest represents a markdown import request
type ImportMarkdownRequest struct {
	OwnerID  *string `json:"-"`
	Name     string  `json:"name"`
	QuizID   *string `json:"quiz_id,omitempty"`
	Markdown string  `json:"markdown"`
}
