package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quizdash/internal/domain"
	models "quizdash/internal/domain/models/report"
	reportSvc "quizdash/internal/domain/services/report"
	"quizdash/internal/metrics"
	"quizdash/internal/service/report/render"
)

// reportService implements the ReportService interface
type reportService struct {
	templates reportSvc.TemplateService
	sanitizer reportSvc.ContentSanitizer
	catalog   *render.Catalog
	preparer  render.Preparer
	renderer  reportSvc.DocumentRenderer
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(
	templates reportSvc.TemplateService,
	sanitizer reportSvc.ContentSanitizer,
	catalog *render.Catalog,
	preparer render.Preparer,
	renderer reportSvc.DocumentRenderer,
	m *metrics.Metrics,
	logger *slog.Logger,
) reportSvc.ReportService {
	return &reportService{
		templates: templates,
		sanitizer: sanitizer,
		catalog:   catalog,
		preparer:  preparer,
		renderer:  renderer,
		metrics:   m,
		logger:    logger,
	}
}

// Variables lists the placeholders template authors can use
func (s *reportService) Variables() []models.VariableDefinition {
	return s.catalog.Variables()
}

// Preview resolves a template against a report context
func (s *reportService) Preview(ctx context.Context, ownerID, templateID string, reportCtx *models.ReportContext) (*reportSvc.RenderPayload, error) {
	tpl, err := s.templates.GetTemplate(ctx, ownerID, templateID)
	if err != nil {
		return nil, err
	}
	return s.prepare(tpl, reportCtx), nil
}

// PreviewDefault resolves the default template of a quiz, falling back to the global default
func (s *reportService) PreviewDefault(ctx context.Context, ownerID string, quizID *string, reportCtx *models.ReportContext) (*reportSvc.RenderPayload, error) {
	visible, err := s.templates.ListVisible(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	tpl := findDefault(visible, quizID)
	if tpl == nil && quizID != nil {
		tpl = findDefault(visible, nil)
	}
	if tpl == nil {
		return nil, &domain.NotFoundError{Message: "no default report template is set"}
	}

	s.logger.Debug("resolved default template",
		"id", tpl.ID,
		"quiz_id", ownerKey(quizID),
		"template_quiz_id", ownerKey(tpl.QuizID),
	)

	return s.prepare(tpl, reportCtx), nil
}

// Render prepares the payload and hands it to the external renderer
func (s *reportService) Render(ctx context.Context, ownerID, templateID string, reportCtx *models.ReportContext) ([]byte, string, error) {
	payload, err := s.Preview(ctx, ownerID, templateID, reportCtx)
	if err != nil {
		return nil, "", err
	}

	start := time.Now()
	data, contentType, err := s.renderer.Render(ctx, payload)
	s.metrics.ObserveRender(time.Since(start))
	if err != nil {
		s.logger.Error("render failed", "template_id", templateID, "error", err)
		return nil, "", fmt.Errorf("render template %s: %w", templateID, err)
	}

	s.logger.Info("report rendered",
		"template_id", templateID,
		"owner_id", ownerID,
		"bytes", len(data),
		"content_type", contentType,
	)

	return data, contentType, nil
}

// prepare sanitizes every section again before building the payload, so rows
// written by older clients cannot reach the renderer unsanitized.
func (s *reportService) prepare(tpl *models.Template, reportCtx *models.ReportContext) *reportSvc.RenderPayload {
	sections := make([]models.Section, len(tpl.Sections))
	for i, sec := range tpl.Sections {
		sec.Title = s.sanitizer.SanitizeTitle(sec.Title)
		sec.Content = s.sanitizer.Sanitize(sec.Content)
		sections[i] = sec
	}
	if reportCtx == nil {
		reportCtx = &models.ReportContext{}
	}
	return s.preparer.Prepare(sections, s.catalog.Resolve(reportCtx))
}

func findDefault(templates []models.Template, scope *string) *models.Template {
	for i := range templates {
		if templates[i].IsDefault && templates[i].InScope(scope) {
			return &templates[i]
		}
	}
	return nil
}
