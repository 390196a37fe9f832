package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quizdash/internal/domain"
	models "quizdash/internal/domain/models/report"
	reportRepo "quizdash/internal/domain/repositories/report"
	"quizdash/internal/repository/postgres"
)

const templateColumns = `id::text, name, content, created_by, quiz_id, is_default, version, created_at, updated_at`

// PostgresTemplateRepository implements the TemplateRepository interface
type PostgresTemplateRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(config *postgres.RepositoryConfig) reportRepo.TemplateRepository {
	return &PostgresTemplateRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new template
func (r *PostgresTemplateRepository) Create(ctx context.Context, tpl *models.Template) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, content, created_by, quiz_id, is_default, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, created_at, updated_at
	`, r.tables.ReportTemplates)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		tpl.Name,
		models.EncodeSections(tpl.Sections),
		tpl.OwnerID,
		tpl.QuizID,
		tpl.IsDefault,
		tpl.Version,
		tpl.CreatedAt,
		tpl.UpdatedAt,
	).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return r.conflict(ctx, tpl, err)
		}
		return postgres.TransportError("create template", err)
	}

	return nil
}

// GetByID retrieves a template by ID
func (r *PostgresTemplateRepository) GetByID(ctx context.Context, id string) (*models.Template, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, templateColumns, r.tables.ReportTemplates)

	executor := postgres.GetExecutor(ctx, r.pool)
	tpl, err := scanTemplate(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
		}
		return nil, postgres.TransportError("get template", err)
	}

	return tpl, nil
}

// ListVisible returns the owner's templates and all global templates, by name
func (r *PostgresTemplateRepository) ListVisible(ctx context.Context, ownerID string) ([]models.Template, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE created_by IS NULL OR created_by = $1
		ORDER BY LOWER(name), id
	`, templateColumns, r.tables.ReportTemplates)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, postgres.TransportError("list templates", err)
	}
	defer rows.Close()

	templates := []models.Template{}
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, postgres.TransportError("scan template", err)
		}
		templates = append(templates, *tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, postgres.TransportError("iterate templates", err)
	}

	return templates, nil
}

// FindByName returns templates of any owner whose name matches case-insensitively
func (r *PostgresTemplateRepository) FindByName(ctx context.Context, name string) ([]models.Template, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE LOWER(name) = LOWER($1)
		ORDER BY id
	`, templateColumns, r.tables.ReportTemplates)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, strings.TrimSpace(name))
	if err != nil {
		return nil, postgres.TransportError("find templates by name", err)
	}
	defer rows.Close()

	templates := []models.Template{}
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, postgres.TransportError("scan template", err)
		}
		templates = append(templates, *tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, postgres.TransportError("iterate templates", err)
	}

	return templates, nil
}

// Update writes name, sections, scope and version
func (r *PostgresTemplateRepository) Update(ctx context.Context, tpl *models.Template) error {
	if _, err := uuid.Parse(tpl.ID); err != nil {
		return fmt.Errorf("template %s: %w", tpl.ID, domain.ErrNotFound)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, content = $2, quiz_id = $3, version = $4, updated_at = $5
		WHERE id = $6
	`, r.tables.ReportTemplates)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		tpl.Name,
		models.EncodeSections(tpl.Sections),
		tpl.QuizID,
		tpl.Version,
		tpl.UpdatedAt,
		tpl.ID,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return r.conflict(ctx, tpl, err)
		}
		return postgres.TransportError("update template", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("template %s: %w", tpl.ID, domain.ErrNotFound)
	}

	return nil
}

// ClearDefaults unsets is_default on every template in scope except exceptID
func (r *PostgresTemplateRepository) ClearDefaults(ctx context.Context, scope *string, exceptID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_default = FALSE
		WHERE is_default AND quiz_id IS NOT DISTINCT FROM $1 AND id::text <> $2
	`, r.tables.ReportTemplates)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, scope, exceptID)
	if err != nil {
		return postgres.TransportError("clear default templates", err)
	}

	r.logger.Debug("cleared default templates",
		"quiz_id", scopeLabel(scope),
		"rows", result.RowsAffected(),
	)

	return nil
}

// MarkDefault sets is_default on the template and moves it into scope
func (r *PostgresTemplateRepository) MarkDefault(ctx context.Context, id string, scope *string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET is_default = TRUE, quiz_id = $1
		WHERE id = $2
	`, r.tables.ReportTemplates)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, scope, id)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("quiz scope %s already has a default template", scopeLabel(scope)),
				ResourceType: "template",
				ResourceID:   id,
			}
		}
		return postgres.TransportError("mark default template", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UnmarkDefault unsets is_default on a single template
func (r *PostgresTemplateRepository) UnmarkDefault(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	query := fmt.Sprintf(`UPDATE %s SET is_default = FALSE WHERE id = $1`, r.tables.ReportTemplates)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return postgres.TransportError("unmark default template", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a template permanently
func (r *PostgresTemplateRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.ReportTemplates)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return postgres.TransportError("delete template", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// conflict turns a unique violation into a structured conflict error
func (r *PostgresTemplateRepository) conflict(ctx context.Context, tpl *models.Template, cause error) error {
	if strings.HasSuffix(postgres.ConstraintName(cause), "_one_default_key") {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("quiz scope %s already has a default template", scopeLabel(tpl.QuizID)),
			ResourceType: "template",
			ResourceID:   tpl.ID,
		}
	}

	query := fmt.Sprintf(`
		SELECT id::text FROM %s
		WHERE COALESCE(created_by, '') = COALESCE($1, '') AND LOWER(name) = LOWER($2)
	`, r.tables.ReportTemplates)

	var existingID string
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, tpl.OwnerID, tpl.Name).Scan(&existingID); err != nil {
		r.logger.Debug("could not resolve conflicting template", "name", tpl.Name, "error", err)
	}

	return &domain.ConflictError{
		Message:      fmt.Sprintf("template '%s' already exists", tpl.Name),
		ResourceType: "template",
		ResourceID:   existingID,
	}
}

func scanTemplate(row pgx.Row) (*models.Template, error) {
	var (
		tpl     models.Template
		content string
	)
	err := row.Scan(
		&tpl.ID,
		&tpl.Name,
		&content,
		&tpl.OwnerID,
		&tpl.QuizID,
		&tpl.IsDefault,
		&tpl.Version,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	tpl.Sections = models.DecodeSections(content)
	return &tpl, nil
}

func scopeLabel(scope *string) string {
	if scope == nil {
		return "global"
	}
	return *scope
}
