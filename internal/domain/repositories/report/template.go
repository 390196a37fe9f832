package report

import (
	"context"

	models "quizdash/internal/domain/models/report"
)

// TemplateRepository defines data access operations for report templates.
// Implementations encode sections with models.EncodeSections on write and
// decode them with models.DecodeSections on read.
type TemplateRepository interface {
	// Create inserts a new template and fills in its ID and timestamps
	Create(ctx context.Context, tpl *models.Template) error

	// GetByID retrieves a template by ID regardless of owner
	GetByID(ctx context.Context, id string) (*models.Template, error)

	// ListVisible returns templates owned by ownerID plus all global templates
	ListVisible(ctx context.Context, ownerID string) ([]models.Template, error)

	// FindByName returns every template of any owner whose name matches
	// case-insensitively. Global names must be checked against all owners.
	FindByName(ctx context.Context, name string) ([]models.Template, error)

	// Update writes name, sections, scope and version of an existing template
	Update(ctx context.Context, tpl *models.Template) error

	// ClearDefaults unsets is_default on every template in scope except exceptID
	ClearDefaults(ctx context.Context, scope *string, exceptID string) error

	// MarkDefault sets is_default on the template and moves it into scope
	MarkDefault(ctx context.Context, id string, scope *string) error

	// UnmarkDefault unsets is_default on a single template
	UnmarkDefault(ctx context.Context, id string) error

	// Delete removes a template permanently
	Delete(ctx context.Context, id string) error
}
