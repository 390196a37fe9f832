package report

import (
	"context"

	models "quizdash/internal/domain/models/report"
)

// TemplateService handles report template business logic and keeps the
// naming and default-template invariants.
type TemplateService interface {
	// ListVisible returns the caller's templates plus all global templates
	ListVisible(ctx context.Context, ownerID string) ([]models.Template, error)

	// IsNameAvailable checks a name case-insensitively against the caller's visible templates.
	// Global names are checked against every owner.
	// excludingID skips one template (the one being edited).
	IsNameAvailable(ctx context.Context, name, ownerID string, excludingID *string) (bool, error)

	// CreateTemplate creates a template at version 1
	CreateTemplate(ctx context.Context, req *CreateTemplateRequest) (*models.Template, error)

	// GetTemplate retrieves a template the caller can see
	GetTemplate(ctx context.Context, ownerID, id string) (*models.Template, error)

	// UpdateTemplate applies a patch and bumps the version by one
	UpdateTemplate(ctx context.Context, ownerID, id string, req *UpdateTemplateRequest) (*models.Template, error)

	// SetDefault makes the template the only default of scope. Version is unchanged.
	SetDefault(ctx context.Context, ownerID, id string, scope *string) (*models.Template, error)

	// ClearDefault unsets the default flag of a template. Version is unchanged.
	ClearDefault(ctx context.Context, ownerID, id string) (*models.Template, error)

	// DuplicateTemplate copies a template under a "(Copy)" name, not default, version 1
	DuplicateTemplate(ctx context.Context, ownerID, id string) (*models.Template, error)

	// DeleteTemplate removes a template permanently
	DeleteTemplate(ctx context.Context, ownerID, id string) error

	// ValidateSections reports per-section validation results without saving
	ValidateSections(sections []models.Section) []SectionReport

	// AddSection appends a new placeholder section and saves
	AddSection(ctx context.Context, ownerID, id string) (*models.Template, error)

	// RemoveSection removes a section; the last section cannot be removed
	RemoveSection(ctx context.Context, ownerID, id, sectionID string) (*models.Template, error)

	// DuplicateSection appends a copy of a section and saves
	DuplicateSection(ctx context.Context, ownerID, id, sectionID string) (*models.Template, error)

	// EditSection renames a section and/or replaces its content and saves
	EditSection(ctx context.Context, ownerID, id, sectionID string, req *EditSectionRequest) (*models.Template, error)

	// InsertImage embeds an uploaded image URL at the end of a section and saves
	InsertImage(ctx context.Context, ownerID, id, sectionID, url, alt string) (*models.Template, error)
}

// CreateTemplateRequest represents a template creation request
type CreateTemplateRequest struct {
	OwnerID   *string          `json:"-"` // Set by handler from auth context; nil only for system templates
	Name      string           `json:"name"`
	QuizID    *string          `json:"quiz_id,omitempty"`
	IsDefault bool             `json:"is_default"`
	Sections  []models.Section `json:"sections"`
}

// OptionalScope tracks tri-state semantics for quiz scope updates (RFC 7396 PATCH).
// Transport-agnostic - handler maps from httputil.OptionalString.
//   - Present=false: field absent (don't change)
//   - Present=true, Value=nil: move to the global scope
//   - Present=true, Value=&"id": move to that quiz
type OptionalScope struct {
	Present bool
	Value   *string
}

// UpdateTemplateRequest represents a template patch. Nil fields are left unchanged.
type UpdateTemplateRequest struct {
	Name     *string
	Sections []models.Section
	QuizID   OptionalScope
}

// EditSectionRequest updates one section in place
type EditSectionRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// SectionReport is the validation outcome for one section
type SectionReport struct {
	SectionID string   `json:"section_id"`
	Title     string   `json:"title"`
	IsValid   bool     `json:"is_valid"`
	Errors    []string `json:"errors"`
}
