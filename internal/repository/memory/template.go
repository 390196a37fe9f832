package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"quizdash/internal/domain"
	models "quizdash/internal/domain/models/report"
	reportRepo "quizdash/internal/domain/repositories/report"
)

type templateRepository struct {
	db *DB
}

// NewTemplateRepository creates an in-memory template repository
func NewTemplateRepository(db *DB) reportRepo.TemplateRepository {
	return &templateRepository{db: db}
}

// Create inserts a new template. Names must be unique per owner, like the
// unique index of the Postgres schema.
func (r *templateRepository) Create(ctx context.Context, tpl *models.Template) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if existing := r.findByName(tpl.OwnerID, tpl.Name, ""); existing != nil {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("template '%s' already exists", tpl.Name),
			ResourceType: "template",
			ResourceID:   existing.id,
		}
	}

	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	now := time.Now()
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = now
	}
	tpl.UpdatedAt = now

	r.db.templates[tpl.ID] = &row{
		id:        tpl.ID,
		name:      tpl.Name,
		content:   models.EncodeSections(tpl.Sections),
		createdBy: copyString(tpl.OwnerID),
		quizID:    copyString(tpl.QuizID),
		isDefault: tpl.IsDefault,
		version:   tpl.Version,
		createdAt: tpl.CreatedAt,
		updatedAt: tpl.UpdatedAt,
	}
	return nil
}

// GetByID retrieves a template by ID
func (r *templateRepository) GetByID(ctx context.Context, id string) (*models.Template, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	rw, ok := r.db.templates[id]
	if !ok {
		return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	return rw.toTemplate(), nil
}

// ListVisible returns templates owned by ownerID plus global templates, by name
func (r *templateRepository) ListVisible(ctx context.Context, ownerID string) ([]models.Template, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	templates := make([]models.Template, 0, len(r.db.templates))
	for _, rw := range r.db.templates {
		if rw.createdBy == nil || *rw.createdBy == ownerID {
			templates = append(templates, *rw.toTemplate())
		}
	}

	sort.Slice(templates, func(i, j int) bool {
		a, b := strings.ToLower(templates[i].Name), strings.ToLower(templates[j].Name)
		if a != b {
			return a < b
		}
		return templates[i].ID < templates[j].ID
	})
	return templates, nil
}

// FindByName returns templates of any owner whose name matches case-insensitively
func (r *templateRepository) FindByName(ctx context.Context, name string) ([]models.Template, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	templates := []models.Template{}
	for _, rw := range r.db.templates {
		if models.SameName(rw.name, name) {
			templates = append(templates, *rw.toTemplate())
		}
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
	return templates, nil
}

// Update writes name, sections, scope and version
func (r *templateRepository) Update(ctx context.Context, tpl *models.Template) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	rw, ok := r.db.templates[tpl.ID]
	if !ok {
		return fmt.Errorf("template %s: %w", tpl.ID, domain.ErrNotFound)
	}
	if existing := r.findByName(rw.createdBy, tpl.Name, tpl.ID); existing != nil {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("template '%s' already exists", tpl.Name),
			ResourceType: "template",
			ResourceID:   existing.id,
		}
	}

	rw.name = tpl.Name
	rw.content = models.EncodeSections(tpl.Sections)
	rw.quizID = copyString(tpl.QuizID)
	rw.version = tpl.Version
	rw.updatedAt = tpl.UpdatedAt
	return nil
}

// ClearDefaults unsets is_default in scope except on exceptID
func (r *templateRepository) ClearDefaults(ctx context.Context, scope *string, exceptID string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for id, rw := range r.db.templates {
		if id != exceptID && models.SameScope(rw.quizID, scope) {
			rw.isDefault = false
		}
	}
	return nil
}

// MarkDefault sets is_default and moves the template into scope
func (r *templateRepository) MarkDefault(ctx context.Context, id string, scope *string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	rw, ok := r.db.templates[id]
	if !ok {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	for otherID, other := range r.db.templates {
		if otherID != id && other.isDefault && models.SameScope(other.quizID, scope) {
			return &domain.ConflictError{
				Message:      "scope already has a default template",
				ResourceType: "template",
				ResourceID:   otherID,
			}
		}
	}
	rw.isDefault = true
	rw.quizID = copyString(scope)
	return nil
}

// UnmarkDefault unsets is_default on one template
func (r *templateRepository) UnmarkDefault(ctx context.Context, id string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	rw, ok := r.db.templates[id]
	if !ok {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	rw.isDefault = false
	return nil
}

// Delete removes a template
func (r *templateRepository) Delete(ctx context.Context, id string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.templates[id]; !ok {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	delete(r.db.templates, id)
	return nil
}

// findByName must be called with the mutex held
func (r *templateRepository) findByName(owner *string, name, exceptID string) *row {
	for id, rw := range r.db.templates {
		if id != exceptID && models.SameScope(rw.createdBy, owner) && models.SameName(rw.name, name) {
			return rw
		}
	}
	return nil
}

func (rw *row) toTemplate() *models.Template {
	return &models.Template{
		ID:        rw.id,
		Name:      rw.name,
		OwnerID:   copyString(rw.createdBy),
		QuizID:    copyString(rw.quizID),
		IsDefault: rw.isDefault,
		Version:   rw.version,
		Sections:  models.DecodeSections(rw.content),
		CreatedAt: rw.createdAt,
		UpdatedAt: rw.updatedAt,
	}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
