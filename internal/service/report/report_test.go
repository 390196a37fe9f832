package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"quizdash/internal/domain"
	models "quizdash/internal/domain/models/report"
	reportSvc "quizdash/internal/domain/services/report"
	"quizdash/internal/service/report/converter"
	"quizdash/internal/service/report/render"
	"quizdash/internal/service/report/sanitizer"
)

type fakeRenderer struct {
	payload *reportSvc.RenderPayload
	err     error
}

func (f *fakeRenderer) Render(ctx context.Context, payload *reportSvc.RenderPayload) ([]byte, string, error) {
	f.payload = payload
	if f.err != nil {
		return nil, "", f.err
	}
	return []byte("%PDF-1.7"), "application/pdf", nil
}

func newReportService(t *testing.T, templates reportSvc.TemplateService, renderer reportSvc.DocumentRenderer) reportSvc.ReportService {
	t.Helper()
	catalog, err := render.NewCatalog()
	if err != nil {
		t.Fatal(err)
	}
	return NewReportService(
		templates,
		sanitizer.NewHTMLSanitizer(),
		catalog,
		render.Preparer{},
		renderer,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestReportService_Preview(t *testing.T) {
	templates := newTestService(t)
	tpl, err := templates.CreateTemplate(context.Background(), &reportSvc.CreateTemplateRequest{
		OwnerID: strPtr(owner),
		Name:    "Report",
		Sections: []models.Section{
			{Title: "Hi", Content: "<p>Hello {{student_name}}</p>"},
			{Title: "Score", Content: "<p>{{score}} / {{max_score}} ({{performance_category}})</p>"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	svc := newReportService(t, templates, &fakeRenderer{})
	payload, err := svc.Preview(context.Background(), owner, tpl.ID, &models.ReportContext{
		StudentName: "Ada",
		Score:       9,
		MaxScore:    10,
	})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	want := "<h2>Hi</h2><p>Hello Ada</p><h2>Score</h2><p>9 / 10 (Excellent)</p>"
	if payload.HTML != want {
		t.Errorf("HTML = %q\nwant   %q", payload.HTML, want)
	}
	if payload.Variables["percentage"] != "90" {
		t.Errorf("percentage = %q, want 90", payload.Variables["percentage"])
	}
}

func TestReportService_PreviewDefaultFallsBackToGlobal(t *testing.T) {
	ctx := context.Background()
	templates := newTestService(t)

	global, err := templates.CreateTemplate(ctx, &reportSvc.CreateTemplateRequest{
		Name:      "System Default",
		IsDefault: true,
		Sections:  []models.Section{{Title: "G", Content: "<p>global</p>"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	svc := newReportService(t, templates, &fakeRenderer{})

	payload, err := svc.PreviewDefault(ctx, owner, strPtr("quiz-1"), nil)
	if err != nil {
		t.Fatalf("PreviewDefault: %v", err)
	}
	if !strings.Contains(payload.HTML, "global") {
		t.Errorf("expected global default %s, got %q", global.ID, payload.HTML)
	}

	scoped, err := templates.CreateTemplate(ctx, &reportSvc.CreateTemplateRequest{
		OwnerID:   strPtr(owner),
		Name:      "Quiz Default",
		QuizID:    strPtr("quiz-1"),
		IsDefault: true,
		Sections:  []models.Section{{Title: "Q", Content: "<p>scoped</p>"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	payload, err = svc.PreviewDefault(ctx, owner, strPtr("quiz-1"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(payload.HTML, "scoped") {
		t.Errorf("expected quiz default %s, got %q", scoped.ID, payload.HTML)
	}
}

func TestReportService_PreviewDefaultNone(t *testing.T) {
	svc := newReportService(t, newTestService(t), &fakeRenderer{})
	_, err := svc.PreviewDefault(context.Background(), owner, nil, nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReportService_Render(t *testing.T) {
	templates := newTestService(t)
	tpl := createIntro(t, templates, "Intro")

	renderer := &fakeRenderer{}
	svc := newReportService(t, templates, renderer)

	data, contentType, err := svc.Render(context.Background(), owner, tpl.ID, &models.ReportContext{StudentName: "Ada"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(data) != "%PDF-1.7" || contentType != "application/pdf" {
		t.Errorf("unexpected render output %q %q", data, contentType)
	}
	if renderer.payload == nil || !strings.HasPrefix(renderer.payload.HTML, "<h2>Intro</h2>") {
		t.Errorf("renderer received %+v", renderer.payload)
	}

	failing := newReportService(t, templates, &fakeRenderer{err: &domain.TransportError{Op: "render", Err: errors.New("down")}})
	if _, _, err := failing.Render(context.Background(), owner, tpl.ID, nil); !errors.Is(err, domain.ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}

func TestTransferService_ImportExport(t *testing.T) {
	ctx := context.Background()
	templates := newTestService(t)
	svc := NewTransferService(templates, converter.NewImporter(), converter.NewExporter(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	tpl, err := svc.ImportMarkdown(ctx, &reportSvc.ImportMarkdownRequest{
		OwnerID:  strPtr(owner),
		Markdown: "# Imported\n\n## One\n\nFirst {{student_name}}\n\n## Two\n\n*second*\n",
	})
	if err != nil {
		t.Fatalf("ImportMarkdown: %v", err)
	}
	if tpl.Name != "Imported" || len(tpl.Sections) != 2 || tpl.Version != 1 {
		t.Fatalf("unexpected imported template: %+v", tpl)
	}

	out, err := svc.ExportMarkdown(ctx, owner, tpl.ID)
	if err != nil {
		t.Fatalf("ExportMarkdown: %v", err)
	}
	if !strings.HasPrefix(out, "# Imported\n") || !strings.Contains(out, "## One") || !strings.Contains(out, "## Two") {
		t.Errorf("unexpected export:\n%s", out)
	}
}

func TestTransferService_ImportRejectsScripts(t *testing.T) {
	templates := newTestService(t)
	svc := NewTransferService(templates, converter.NewImporter(), converter.NewExporter(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.ImportMarkdown(context.Background(), &reportSvc.ImportMarkdownRequest{
		OwnerID:  strPtr(owner),
		Name:     "Bad",
		Markdown: "## One\n\n<script>alert(1)</script>\n",
	})
	var verr *domain.SectionValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected SectionValidationError, got %v", err)
	}
}

func TestTransferService_ImportRequiresMarkdown(t *testing.T) {
	svc := NewTransferService(newTestService(t), converter.NewImporter(), converter.NewExporter(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := svc.ImportMarkdown(context.Background(), &reportSvc.ImportMarkdownRequest{OwnerID: strPtr(owner), Name: "x"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
