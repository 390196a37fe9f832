package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"quizdash/internal/config"
	"quizdash/internal/domain"
	models "quizdash/internal/domain/models/report"
	reportSvc "quizdash/internal/domain/services/report"
	"quizdash/internal/service/report/converter"
)

// transferService implements the TransferService interface
type transferService struct {
	templates reportSvc.TemplateService
	importer  *converter.Importer
	exporter  *converter.Exporter
	logger    *slog.Logger
}

// NewTransferService creates a new markdown import/export service
func NewTransferService(
	templates reportSvc.TemplateService,
	importer *converter.Importer,
	exporter *converter.Exporter,
	logger *slog.Logger,
) reportSvc.TransferService {
	return &transferService{
		templates: templates,
		importer:  importer,
		exporter:  exporter,
		logger:    logger,
	}
}

// ImportMarkdown creates a template from a markdown document. The name falls
// back to the document's level-1 heading.
func (s *transferService) ImportMarkdown(ctx context.Context, req *reportSvc.ImportMarkdownRequest) (*models.Template, error) {
	if strings.TrimSpace(req.Markdown) == "" {
		return nil, fmt.Errorf("%w: markdown is required", domain.ErrValidation)
	}
	if len(req.Markdown) > config.MaxMarkdownImportBytes {
		return nil, fmt.Errorf("%w: markdown larger than %d bytes", domain.ErrValidation, config.MaxMarkdownImportBytes)
	}

	doc, err := s.importer.Import(req.Markdown)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = doc.Title
	}

	tpl, err := s.templates.CreateTemplate(ctx, &reportSvc.CreateTemplateRequest{
		OwnerID:  req.OwnerID,
		Name:     name,
		QuizID:   req.QuizID,
		Sections: doc.Sections,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("template imported from markdown",
		"id", tpl.ID,
		"sections", len(tpl.Sections),
		"bytes", len(req.Markdown),
	)

	return tpl, nil
}

// ExportMarkdown renders a template as a markdown document
func (s *transferService) ExportMarkdown(ctx context.Context, ownerID, id string) (string, error) {
	tpl, err := s.templates.GetTemplate(ctx, ownerID, id)
	if err != nil {
		return "", err
	}

	out, err := s.exporter.Export(tpl.Name, tpl.Sections)
	if err != nil {
		return "", fmt.Errorf("export template %s: %w", id, err)
	}
	return out, nil
}
