// Package seed loads the built-in report templates into a store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	models "quizdash/internal/domain/models/report"
	reportSvc "quizdash/internal/domain/services/report"
)

var (
	//go:embed system_templates.yaml
	systemTemplatesYAML []byte

	//go:embed demo_templates.yaml
	demoTemplatesYAML []byte
)

// TemplateSpec is one template definition in the seed file.
type TemplateSpec struct {
	Name     string        `yaml:"name"`
	QuizID   string        `yaml:"quiz_id"`
	Default  bool          `yaml:"default"`
	Sections []SectionSpec `yaml:"sections"`
}

// SectionSpec is one section definition in the seed file.
type SectionSpec struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

type seedFile struct {
	Templates []TemplateSpec `yaml:"templates"`
}

// Result summarises one seeding run.
type Result struct {
	Created []string
	Skipped []string
}

// ParseTemplates decodes a seed file, rejecting entries without a name or sections
// and files that mark more than one default in the same quiz scope.
func ParseTemplates(data []byte) ([]TemplateSpec, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed templates: %w", err)
	}

	defaults := make(map[string]string)
	for i, spec := range file.Templates {
		if spec.Name == "" {
			return nil, fmt.Errorf("seed template %d has no name", i)
		}
		if len(spec.Sections) == 0 {
			return nil, fmt.Errorf("seed template %q has no sections", spec.Name)
		}
		if !spec.Default {
			continue
		}
		if other, ok := defaults[spec.QuizID]; ok {
			return nil, fmt.Errorf("seed templates %q and %q are both default for quiz %q", other, spec.Name, spec.QuizID)
		}
		defaults[spec.QuizID] = spec.Name
	}

	return file.Templates, nil
}

// SystemTemplates returns the embedded built-in templates.
func SystemTemplates() ([]TemplateSpec, error) {
	return ParseTemplates(systemTemplatesYAML)
}

// DemoTemplates returns the embedded templates seeded for a demo user.
func DemoTemplates() ([]TemplateSpec, error) {
	return ParseTemplates(demoTemplatesYAML)
}

// TemplateSeeder creates seed templates through the template service so every
// invariant (sanitizing, name uniqueness, default singleton) applies.
type TemplateSeeder struct {
	templates reportSvc.TemplateService
	logger    *slog.Logger
}

// NewTemplateSeeder creates a new template seeder
func NewTemplateSeeder(templates reportSvc.TemplateService, logger *slog.Logger) *TemplateSeeder {
	return &TemplateSeeder{templates: templates, logger: logger}
}

// Seed creates every spec whose name is still free. A nil ownerID seeds
// global templates. Existing templates are left untouched, so reruns are safe.
func (s *TemplateSeeder) Seed(ctx context.Context, specs []TemplateSpec, ownerID *string) (*Result, error) {
	lookupOwner := ""
	if ownerID != nil {
		lookupOwner = *ownerID
	}

	result := &Result{}
	for _, spec := range specs {
		available, err := s.templates.IsNameAvailable(ctx, spec.Name, lookupOwner, nil)
		if err != nil {
			return result, err
		}
		if !available {
			result.Skipped = append(result.Skipped, spec.Name)
			s.logger.Info("seed template exists, skipping", "name", spec.Name)
			continue
		}

		sections := make([]models.Section, 0, len(spec.Sections))
		for _, sec := range spec.Sections {
			sections = append(sections, models.Section{Title: sec.Title, Content: sec.Content})
		}

		var quizID *string
		if spec.QuizID != "" {
			quizID = &spec.QuizID
		}

		tpl, err := s.templates.CreateTemplate(ctx, &reportSvc.CreateTemplateRequest{
			OwnerID:   ownerID,
			Name:      spec.Name,
			QuizID:    quizID,
			IsDefault: spec.Default,
			Sections:  sections,
		})
		if err != nil {
			return result, fmt.Errorf("seed %q: %w", spec.Name, err)
		}

		result.Created = append(result.Created, tpl.Name)
		s.logger.Info("seed template created", "name", tpl.Name, "id", tpl.ID, "sections", len(tpl.Sections))
	}

	return result, nil
}
