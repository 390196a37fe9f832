package report

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"quizdash/internal/config"
	"quizdash/internal/domain"
	models "quizdash/internal/domain/models/report"
	"quizdash/internal/domain/repositories"
	reportRepo "quizdash/internal/domain/repositories/report"
	reportSvc "quizdash/internal/domain/services/report"
	"quizdash/internal/metrics"
	"quizdash/internal/service/report/document"
)

// templateService implements the TemplateService interface
type templateService struct {
	repo      reportRepo.TemplateRepository
	txManager repositories.TransactionManager
	sanitizer reportSvc.ContentSanitizer
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewTemplateService creates a new template service
func NewTemplateService(
	repo reportRepo.TemplateRepository,
	txManager repositories.TransactionManager,
	sanitizer reportSvc.ContentSanitizer,
	m *metrics.Metrics,
	logger *slog.Logger,
) reportSvc.TemplateService {
	return &templateService{
		repo:      repo,
		txManager: txManager,
		sanitizer: sanitizer,
		metrics:   m,
		logger:    logger,
	}
}

// ListVisible returns the caller's templates plus all global templates
func (s *templateService) ListVisible(ctx context.Context, ownerID string) ([]models.Template, error) {
	templates, err := s.repo.ListVisible(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// The store already filters; this keeps a misconfigured store from leaking rows.
	visible := templates[:0]
	for _, t := range templates {
		if t.VisibleTo(ownerID) {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

// IsNameAvailable checks a name against the caller's visible templates.
// An empty ownerID, or an excludingID naming a global template, asks for a
// global name, which must be free for every owner.
func (s *templateService) IsNameAvailable(ctx context.Context, name, ownerID string, excludingID *string) (bool, error) {
	var owner *string
	if ownerID != "" {
		owner = &ownerID
	}
	if owner != nil && excludingID != nil {
		if current, err := s.repo.GetByID(ctx, *excludingID); err == nil && current.IsGlobal() {
			owner = nil
		}
	}
	candidates, err := s.nameCandidates(ctx, name, owner)
	if err != nil {
		return false, err
	}
	return findNameConflict(candidates, name, excludingID) == nil, nil
}

// CreateTemplate creates a template at version 1
func (s *templateService) CreateTemplate(ctx context.Context, req *reportSvc.CreateTemplateRequest) (tpl *models.Template, err error) {
	defer func() { s.metrics.TemplateOp("create", err) }()

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	name := strings.TrimSpace(req.Name)
	quizID := normalizeScope(req.QuizID)

	// A new template without sections starts with one placeholder section.
	input := req.Sections
	if len(input) == 0 {
		input = document.New().Sections()
	}
	sections, err := s.prepareSections(input)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(ctx, name, req.OwnerID, nil); err != nil {
		return nil, err
	}

	now := time.Now()
	tpl = &models.Template{
		Name:      name,
		OwnerID:   req.OwnerID,
		QuizID:    quizID,
		Version:   1,
		Sections:  sections,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if !req.IsDefault {
		if err := s.repo.Create(ctx, tpl); err != nil {
			return nil, err
		}
	} else {
		err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			if err := s.repo.Create(txCtx, tpl); err != nil {
				return err
			}
			if err := s.repo.ClearDefaults(txCtx, tpl.QuizID, tpl.ID); err != nil {
				return err
			}
			return s.repo.MarkDefault(txCtx, tpl.ID, tpl.QuizID)
		})
		if err != nil {
			return nil, err
		}
		tpl.IsDefault = true
	}

	s.logger.Info("template created",
		"id", tpl.ID,
		"name", tpl.Name,
		"owner_id", ownerKey(tpl.OwnerID),
		"sections", len(tpl.Sections),
		"is_default", tpl.IsDefault,
	)

	return tpl, nil
}

// GetTemplate retrieves a template the caller can see
func (s *templateService) GetTemplate(ctx context.Context, ownerID, id string) (*models.Template, error) {
	return s.load(ctx, ownerID, id)
}

// UpdateTemplate applies a patch and bumps the version by exactly one
func (s *templateService) UpdateTemplate(ctx context.Context, ownerID, id string, req *reportSvc.UpdateTemplateRequest) (tpl *models.Template, err error) {
	defer func() { s.metrics.TemplateOp("update", err) }()

	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	tpl, err = s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := s.ensureNameAvailable(ctx, name, tpl.OwnerID, &tpl.ID); err != nil {
			return nil, err
		}
		tpl.Name = name
	}

	if req.Sections != nil {
		sections, err := s.prepareSections(req.Sections)
		if err != nil {
			return nil, err
		}
		tpl.Sections = sections
	}

	// A default that moves to another scope stops being a default there.
	leavesScope := false
	if req.QuizID.Present {
		scope := normalizeScope(req.QuizID.Value)
		leavesScope = tpl.IsDefault && !models.SameScope(tpl.QuizID, scope)
		tpl.QuizID = scope
	}

	if err := s.save(ctx, tpl, leavesScope); err != nil {
		return nil, err
	}

	s.logger.Info("template updated",
		"id", tpl.ID,
		"version", tpl.Version,
		"owner_id", ownerID,
	)

	return tpl, nil
}

// SetDefault makes the template the only default of scope.
// Both steps run in one transaction; the version is not changed.
func (s *templateService) SetDefault(ctx context.Context, ownerID, id string, scope *string) (tpl *models.Template, err error) {
	defer func() { s.metrics.TemplateOp("set_default", err) }()

	tpl, err = s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	scope = normalizeScope(scope)

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.ClearDefaults(txCtx, scope, tpl.ID); err != nil {
			return err
		}
		return s.repo.MarkDefault(txCtx, tpl.ID, scope)
	})
	if err != nil {
		return nil, err
	}

	tpl.IsDefault = true
	tpl.QuizID = scope

	s.logger.Info("default template set",
		"id", tpl.ID,
		"quiz_id", ownerKey(scope),
		"owner_id", ownerID,
	)

	return tpl, nil
}

// ClearDefault unsets the default flag of a template
func (s *templateService) ClearDefault(ctx context.Context, ownerID, id string) (tpl *models.Template, err error) {
	defer func() { s.metrics.TemplateOp("clear_default", err) }()

	tpl, err = s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !tpl.IsDefault {
		return tpl, nil
	}

	if err := s.repo.UnmarkDefault(ctx, tpl.ID); err != nil {
		return nil, err
	}
	tpl.IsDefault = false

	s.logger.Info("default template cleared", "id", tpl.ID, "owner_id", ownerID)

	return tpl, nil
}

// DuplicateTemplate copies a template under the first free "(Copy)" name.
// The copy belongs to the caller, is not a default and starts at version 1.
func (s *templateService) DuplicateTemplate(ctx context.Context, ownerID, id string) (dup *models.Template, err error) {
	defer func() { s.metrics.TemplateOp("duplicate", err) }()

	src, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	visible, err := s.ListVisible(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	name, err := copyName(src.Name, visible)
	if err != nil {
		return nil, err
	}

	owner := ownerID
	now := time.Now()
	dup = src.Clone()
	dup.ID = ""
	dup.Name = name
	dup.OwnerID = &owner
	dup.IsDefault = false
	dup.Version = 1
	dup.CreatedAt = now
	dup.UpdatedAt = now

	if err := s.repo.Create(ctx, dup); err != nil {
		return nil, err
	}

	s.logger.Info("template duplicated",
		"id", dup.ID,
		"source_id", src.ID,
		"name", dup.Name,
		"owner_id", ownerID,
	)

	return dup, nil
}

// DeleteTemplate removes a template permanently. Deleting the current
// default leaves its scope without one.
func (s *templateService) DeleteTemplate(ctx context.Context, ownerID, id string) (err error) {
	defer func() { s.metrics.TemplateOp("delete", err) }()

	if _, err := s.load(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("template deleted", "id", id, "owner_id", ownerID)

	return nil
}

// ValidateSections reports per-section results without saving
func (s *templateService) ValidateSections(sections []models.Section) []reportSvc.SectionReport {
	reports := make([]reportSvc.SectionReport, len(sections))
	for i, sec := range sections {
		res := s.sanitizer.Validate(sec.Content)
		errs := res.Errors
		if errs == nil {
			errs = []string{}
		}
		reports[i] = reportSvc.SectionReport{
			SectionID: sec.ID,
			Title:     sec.Title,
			IsValid:   res.IsValid,
			Errors:    errs,
		}
	}
	return reports
}

// AddSection appends a placeholder section
func (s *templateService) AddSection(ctx context.Context, ownerID, id string) (*models.Template, error) {
	return s.editDocument(ctx, ownerID, id, "add_section", func(doc *document.Document) error {
		doc.AddSection()
		return nil
	})
}

// RemoveSection removes a section unless it is the last one
func (s *templateService) RemoveSection(ctx context.Context, ownerID, id, sectionID string) (*models.Template, error) {
	return s.editDocument(ctx, ownerID, id, "remove_section", func(doc *document.Document) error {
		return doc.RemoveSection(sectionID)
	})
}

// DuplicateSection appends a copy of a section
func (s *templateService) DuplicateSection(ctx context.Context, ownerID, id, sectionID string) (*models.Template, error) {
	return s.editDocument(ctx, ownerID, id, "duplicate_section", func(doc *document.Document) error {
		_, err := doc.DuplicateSection(sectionID)
		return err
	})
}

// EditSection renames a section and/or replaces its content
func (s *templateService) EditSection(ctx context.Context, ownerID, id, sectionID string, req *reportSvc.EditSectionRequest) (*models.Template, error) {
	if req.Title == nil && req.Content == nil {
		return nil, fmt.Errorf("%w: title or content is required", domain.ErrValidation)
	}

	return s.editDocument(ctx, ownerID, id, "edit_section", func(doc *document.Document) error {
		if req.Title != nil {
			if err := doc.RenameSection(sectionID, strings.TrimSpace(*req.Title)); err != nil {
				return err
			}
		}
		if req.Content != nil {
			if err := doc.SetContent(sectionID, *req.Content); err != nil {
				return err
			}
		}
		return nil
	})
}

// InsertImage embeds an uploaded image at the end of a section
func (s *templateService) InsertImage(ctx context.Context, ownerID, id, sectionID, imageURL, alt string) (*models.Template, error) {
	if err := validateImageURL(imageURL); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	return s.editDocument(ctx, ownerID, id, "insert_image", func(doc *document.Document) error {
		c, err := doc.Section(sectionID)
		if err != nil {
			return err
		}
		c.InsertImage(imageURL, alt)
		return nil
	})
}

// editDocument loads a template into a Document, applies op and saves the result
// through the normal update path. A failing op leaves the stored template untouched.
func (s *templateService) editDocument(ctx context.Context, ownerID, id, opName string, op func(*document.Document) error) (tpl *models.Template, err error) {
	defer func() { s.metrics.TemplateOp(opName, err) }()

	tpl, err = s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	doc := document.FromSections(tpl.Sections)
	if err := op(doc); err != nil {
		return nil, err
	}

	sections, err := s.prepareSections(doc.Sections())
	if err != nil {
		return nil, err
	}
	tpl.Sections = sections

	if err := s.save(ctx, tpl, false); err != nil {
		return nil, err
	}

	s.logger.Debug("template sections edited",
		"id", tpl.ID,
		"op", opName,
		"sections", len(tpl.Sections),
		"version", tpl.Version,
	)

	return tpl, nil
}

// save writes tpl with the next version. When unmark is set the default flag
// is dropped in the same transaction.
func (s *templateService) save(ctx context.Context, tpl *models.Template, unmark bool) error {
	tpl.Version++
	tpl.UpdatedAt = time.Now()

	if !unmark {
		if err := s.repo.Update(ctx, tpl); err != nil {
			tpl.Version--
			return err
		}
		return nil
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.UnmarkDefault(txCtx, tpl.ID); err != nil {
			return err
		}
		return s.repo.Update(txCtx, tpl)
	})
	if err != nil {
		tpl.Version--
		return err
	}
	tpl.IsDefault = false
	return nil
}

// load fetches a template and checks the caller may use it.
// Global templates are usable by every caller.
func (s *templateService) load(ctx context.Context, ownerID, id string) (*models.Template, error) {
	tpl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tpl.VisibleTo(ownerID) {
		s.logger.Warn("template access denied", "id", id, "owner_id", ownerID)
		return nil, &domain.ForbiddenError{Message: fmt.Sprintf("template %s belongs to another user", id)}
	}
	return tpl, nil
}

// prepareSections runs the save gate: every section is validated, then sanitized.
// Any failing section blocks the whole save and is named in the returned error.
func (s *templateService) prepareSections(sections []models.Section) ([]models.Section, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: a template must keep at least one section", domain.ErrValidation)
	}
	if len(sections) > config.MaxSectionsPerTemplate {
		return nil, fmt.Errorf("%w: a template can hold at most %d sections", domain.ErrValidation, config.MaxSectionsPerTemplate)
	}

	var problems []domain.SectionProblem
	for _, sec := range sections {
		var reasons []string
		if len(sec.Title) > config.MaxSectionTitleLength {
			reasons = append(reasons, fmt.Sprintf("title longer than %d characters", config.MaxSectionTitleLength))
		}
		if len(sec.Content) > config.MaxSectionContentBytes {
			reasons = append(reasons, fmt.Sprintf("content larger than %d bytes", config.MaxSectionContentBytes))
		}
		if res := s.sanitizer.Validate(sec.Content); !res.IsValid {
			reasons = append(reasons, res.Errors...)
		}
		if len(reasons) > 0 {
			problems = append(problems, domain.SectionProblem{
				SectionID: sec.ID,
				Title:     sec.Title,
				Reasons:   reasons,
			})
		}
	}
	if len(problems) > 0 {
		s.metrics.SectionsRejected(len(problems))
		return nil, &domain.SectionValidationError{Problems: problems}
	}

	clean := make([]models.Section, len(sections))
	for i, sec := range sections {
		content := s.sanitizer.Sanitize(sec.Content)
		s.metrics.Sanitized(len(sec.Content), len(content))
		clean[i] = models.Section{
			ID:      sec.ID,
			Title:   s.sanitizer.SanitizeTitle(sec.Title),
			Content: content,
		}
	}
	return models.NormalizeSections(clean), nil
}

// ensureNameAvailable checks name for a template owned by owner (nil for global).
func (s *templateService) ensureNameAvailable(ctx context.Context, name string, owner *string, excludingID *string) error {
	candidates, err := s.nameCandidates(ctx, name, owner)
	if err != nil {
		return err
	}
	if existing := findNameConflict(candidates, name, excludingID); existing != nil {
		return &domain.UniquenessError{Name: name, ExistingID: existing.ID}
	}
	return nil
}

// nameCandidates returns the templates a name must not collide with. An owned
// template competes with what its owner sees; a global one is seen by every
// owner, so it competes with the whole store.
func (s *templateService) nameCandidates(ctx context.Context, name string, owner *string) ([]models.Template, error) {
	if owner != nil {
		return s.ListVisible(ctx, *owner)
	}
	return s.repo.FindByName(ctx, name)
}

// validateCreateRequest validates a create template request
func (s *templateService) validateCreateRequest(req *reportSvc.CreateTemplateRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxTemplateNameLength),
			validation.By(validateTemplateName),
		),
		validation.Field(&req.Sections, validation.Length(0, config.MaxSectionsPerTemplate)),
	)
}

// validateUpdateRequest validates an update template request
func (s *templateService) validateUpdateRequest(req *reportSvc.UpdateTemplateRequest) error {
	if req.Name == nil && req.Sections == nil && !req.QuizID.Present {
		return fmt.Errorf("at least one field must be provided")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxTemplateNameLength),
			validation.By(validateTemplateName),
		),
		validation.Field(&req.Sections, validation.Length(0, config.MaxSectionsPerTemplate)),
	)
}

// validateTemplateName rejects names that are blank once trimmed
func validateTemplateName(value interface{}) error {
	var name string
	switch v := value.(type) {
	case string:
		name = v
	case *string:
		if v == nil {
			return nil
		}
		name = *v
	default:
		return fmt.Errorf("name must be a string")
	}

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

func validateImageURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid image url: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("image url must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("image url must be absolute")
	}
	return nil
}

// findNameConflict returns the visible template that already uses name, if any
func findNameConflict(visible []models.Template, name string, excludingID *string) *models.Template {
	for i := range visible {
		t := &visible[i]
		if excludingID != nil && t.ID == *excludingID {
			continue
		}
		if models.SameName(t.Name, name) {
			return t
		}
	}
	return nil
}

// copyName picks "<name> (Copy)", then "<name> (Copy 2)", "<name> (Copy 3)"...
func copyName(name string, visible []models.Template) (string, error) {
	base := strings.TrimSpace(name) + " (Copy"
	for n := 1; n <= config.MaxCopyNameAttempts; n++ {
		candidate := base + ")"
		if n > 1 {
			candidate = fmt.Sprintf("%s %d)", base, n)
		}
		if findNameConflict(visible, candidate, nil) == nil {
			return candidate, nil
		}
	}
	return "", &domain.UniquenessError{Name: base + ")"}
}

// normalizeScope maps an empty quiz id to the global scope
func normalizeScope(scope *string) *string {
	if scope == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*scope)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ownerKey renders an optional id for logs and visibility checks
func ownerKey(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}
