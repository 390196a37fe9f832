// Package postgrest stores templates through Supabase's PostgREST API.
//
// PostgREST cannot span several requests in one transaction. ExecTx runs the
// function directly, so SetDefault degrades to clear-then-mark: an interruption
// between the two requests leaves the scope with no default, never two.
package postgrest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	postgrest "github.com/supabase-community/postgrest-go"

	"quizdash/internal/domain"
	models "quizdash/internal/domain/models/report"
	"quizdash/internal/domain/repositories"
	reportRepo "quizdash/internal/domain/repositories/report"
)

// Queryer starts a PostgREST query. Both *supabase.Client and *postgrest.Client satisfy it.
type Queryer interface {
	From(table string) *postgrest.QueryBuilder
}

// templateRow is the JSON shape of one row of the templates table
type templateRow struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedBy *string   `json:"created_by"`
	QuizID    *string   `json:"quiz_id"`
	IsDefault bool      `json:"is_default"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type templateRepository struct {
	client Queryer
	table  string
	logger *slog.Logger
}

// NewTemplateRepository creates a PostgREST-backed template repository
func NewTemplateRepository(client Queryer, table string, logger *slog.Logger) reportRepo.TemplateRepository {
	return &templateRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

// Create inserts a new template
func (r *templateRepository) Create(ctx context.Context, tpl *models.Template) error {
	record := toRow(tpl)
	record.ID = ""

	var rows []templateRow
	_, err := r.client.From(r.table).
		Insert(record, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		if isDuplicate(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("template '%s' already exists", tpl.Name),
				ResourceType: "template",
			}
		}
		return transportError("create template", err)
	}
	if len(rows) == 0 {
		return transportError("create template", errors.New("insert returned no representation"))
	}

	tpl.ID = rows[0].ID
	tpl.CreatedAt = rows[0].CreatedAt
	tpl.UpdatedAt = rows[0].UpdatedAt
	return nil
}

// GetByID retrieves a template by ID
func (r *templateRepository) GetByID(ctx context.Context, id string) (*models.Template, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	var rows []templateRow
	_, err := r.client.From(r.table).
		Select("*", "", false).
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		return nil, transportError("get template", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	return rows[0].toTemplate(), nil
}

// ListVisible returns the owner's templates plus global templates, by name
func (r *templateRepository) ListVisible(ctx context.Context, ownerID string) ([]models.Template, error) {
	filter := "created_by.is.null"
	if ownerID != "" {
		filter = fmt.Sprintf("created_by.is.null,created_by.eq.%s", quoteFilterValue(ownerID))
	}

	var rows []templateRow
	_, err := r.client.From(r.table).
		Select("*", "", false).
		Or(filter, "").
		Order("name", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, transportError("list templates", err)
	}

	templates := make([]models.Template, 0, len(rows))
	for _, row := range rows {
		templates = append(templates, *row.toTemplate())
	}
	return templates, nil
}

// FindByName returns templates of any owner whose name matches case-insensitively.
// LIKE wildcards in name are escaped; '*' still widens the match, so rows are
// re-checked before returning.
func (r *templateRepository) FindByName(ctx context.Context, name string) ([]models.Template, error) {
	var rows []templateRow
	_, err := r.client.From(r.table).
		Select("*", "", false).
		Ilike("name", escapeLike(strings.TrimSpace(name))).
		Order("id", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, transportError("find templates by name", err)
	}

	templates := make([]models.Template, 0, len(rows))
	for _, row := range rows {
		if models.SameName(row.Name, name) {
			templates = append(templates, *row.toTemplate())
		}
	}
	return templates, nil
}

// Update writes name, sections, scope and version
func (r *templateRepository) Update(ctx context.Context, tpl *models.Template) error {
	if _, err := uuid.Parse(tpl.ID); err != nil {
		return fmt.Errorf("template %s: %w", tpl.ID, domain.ErrNotFound)
	}

	patch := map[string]interface{}{
		"name":       tpl.Name,
		"content":    models.EncodeSections(tpl.Sections),
		"quiz_id":    tpl.QuizID,
		"version":    tpl.Version,
		"updated_at": tpl.UpdatedAt,
	}

	var rows []templateRow
	_, err := r.client.From(r.table).
		Update(patch, "representation", "").
		Eq("id", tpl.ID).
		ExecuteTo(&rows)
	if err != nil {
		if isDuplicate(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("template '%s' already exists", tpl.Name),
				ResourceType: "template",
				ResourceID:   tpl.ID,
			}
		}
		return transportError("update template", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("template %s: %w", tpl.ID, domain.ErrNotFound)
	}
	return nil
}

// ClearDefaults unsets is_default on every template in scope except exceptID
func (r *templateRepository) ClearDefaults(ctx context.Context, scope *string, exceptID string) error {
	query := r.client.From(r.table).
		Update(map[string]interface{}{"is_default": false}, "minimal", "exact").
		Eq("is_default", "true").
		Neq("id", exceptID)

	if scope == nil {
		query = query.Is("quiz_id", "null")
	} else {
		query = query.Eq("quiz_id", *scope)
	}

	_, count, err := query.Execute()
	if err != nil {
		return transportError("clear default templates", err)
	}

	r.logger.Debug("cleared default templates", "quiz_id", scopeLabel(scope), "rows", count)
	return nil
}

// MarkDefault sets is_default on the template and moves it into scope
func (r *templateRepository) MarkDefault(ctx context.Context, id string, scope *string) error {
	return r.setDefaultFlag(ctx, id, map[string]interface{}{
		"is_default": true,
		"quiz_id":    scope,
	})
}

// UnmarkDefault unsets is_default on a single template
func (r *templateRepository) UnmarkDefault(ctx context.Context, id string) error {
	return r.setDefaultFlag(ctx, id, map[string]interface{}{"is_default": false})
}

// Delete removes a template permanently
func (r *templateRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	_, count, err := r.client.From(r.table).
		Delete("minimal", "exact").
		Eq("id", id).
		Execute()
	if err != nil {
		return transportError("delete template", err)
	}
	if count == 0 {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *templateRepository) setDefaultFlag(ctx context.Context, id string, patch map[string]interface{}) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	_, count, err := r.client.From(r.table).
		Update(patch, "minimal", "exact").
		Eq("id", id).
		Execute()
	if err != nil {
		if isDuplicate(err) {
			return &domain.ConflictError{
				Message:      "quiz scope already has a default template",
				ResourceType: "template",
				ResourceID:   id,
			}
		}
		return transportError("update default flag", err)
	}
	if count == 0 {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// TransactionManager runs functions without a transaction
type TransactionManager struct{}

// NewTransactionManager creates a pass-through transaction manager
func NewTransactionManager() repositories.TransactionManager {
	return TransactionManager{}
}

// ExecTx calls fn directly; steps already applied are not undone on error
func (TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func toRow(tpl *models.Template) templateRow {
	return templateRow{
		ID:        tpl.ID,
		Name:      tpl.Name,
		Content:   models.EncodeSections(tpl.Sections),
		CreatedBy: tpl.OwnerID,
		QuizID:    tpl.QuizID,
		IsDefault: tpl.IsDefault,
		Version:   tpl.Version,
		CreatedAt: tpl.CreatedAt,
		UpdatedAt: tpl.UpdatedAt,
	}
}

func (row templateRow) toTemplate() *models.Template {
	return &models.Template{
		ID:        row.ID,
		Name:      row.Name,
		OwnerID:   row.CreatedBy,
		QuizID:    row.QuizID,
		IsDefault: row.IsDefault,
		Version:   row.Version,
		Sections:  models.DecodeSections(row.Content),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// quoteFilterValue quotes a value for use inside an or=(...) filter
func quoteFilterValue(v string) string {
	if strings.ContainsAny(v, `,.:()"\ `) {
		return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(v) + `"`
	}
	return v
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(v string) string {
	return likeEscaper.Replace(v)
}

func isDuplicate(err error) bool {
	return strings.Contains(err.Error(), "23505")
}

func transportError(op string, err error) error {
	return &domain.TransportError{Op: op, Err: err}
}

func scopeLabel(scope *string) string {
	if scope == nil {
		return "global"
	}
	return *scope
}
