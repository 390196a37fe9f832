package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"quizdash/internal/domain"
	models "quizdash/internal/domain/models/report"
	reportSvc "quizdash/internal/domain/services/report"
	"quizdash/internal/metrics"
	"quizdash/internal/repository/memory"
	"quizdash/internal/service/report/sanitizer"
)

const owner = "user-1"

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) reportSvc.TemplateService {
	t.Helper()
	db := memory.NewDB()
	return NewTemplateService(
		memory.NewTemplateRepository(db),
		memory.NewTransactionManager(db),
		sanitizer.NewHTMLSanitizer(),
		metrics.New(prometheus.NewRegistry()),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func createIntro(t *testing.T, svc reportSvc.TemplateService, name string) *models.Template {
	t.Helper()
	tpl, err := svc.CreateTemplate(context.Background(), &reportSvc.CreateTemplateRequest{
		OwnerID:  strPtr(owner),
		Name:     name,
		Sections: []models.Section{{Title: "Intro", Content: "<p>hi</p>"}},
	})
	if err != nil {
		t.Fatalf("CreateTemplate(%q): %v", name, err)
	}
	return tpl
}

func countDefaults(t *testing.T, svc reportSvc.TemplateService, scope *string) []string {
	t.Helper()
	list, err := svc.ListVisible(context.Background(), owner)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, tpl := range list {
		if tpl.IsDefault && models.SameScope(tpl.QuizID, scope) {
			ids = append(ids, tpl.ID)
		}
	}
	return ids
}

func TestCreateTemplate_StartsAtVersionOne(t *testing.T) {
	svc := newTestService(t)

	tpl := createIntro(t, svc, "Intro")

	if tpl.Version != 1 || tpl.IsDefault {
		t.Errorf("version=%d default=%v, want 1/false", tpl.Version, tpl.IsDefault)
	}
	if len(tpl.Sections) != 1 || tpl.Sections[0].ID == "" {
		t.Errorf("sections not normalized: %+v", tpl.Sections)
	}
}

func TestCreateTemplate_NameCollision(t *testing.T) {
	svc := newTestService(t)
	createIntro(t, svc, "Intro")

	_, err := svc.CreateTemplate(context.Background(), &reportSvc.CreateTemplateRequest{
		OwnerID: strPtr(owner),
		Name:    "intro",
	})

	var uniq *domain.UniquenessError
	if !errors.As(err, &uniq) {
		t.Fatalf("expected UniquenessError, got %v", err)
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Error("UniquenessError should match ErrConflict")
	}
}

func TestCreateTemplate_CollidesWithGlobal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateTemplate(ctx, &reportSvc.CreateTemplateRequest{Name: "System Report"}); err != nil {
		t.Fatal(err)
	}

	_, err := svc.CreateTemplate(ctx, &reportSvc.CreateTemplateRequest{OwnerID: strPtr(owner), Name: "system report"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict with global template, got %v", err)
	}
}

func TestGlobalNames_UniqueAcrossOwners(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	global, err := svc.CreateTemplate(ctx, &reportSvc.CreateTemplateRequest{Name: "System Report"})
	if err != nil {
		t.Fatal(err)
	}
	other, err := svc.CreateTemplate(ctx, &reportSvc.CreateTemplateRequest{OwnerID: strPtr("user-2"), Name: "Weekly"})
	if err != nil {
		t.Fatal(err)
	}

	// user-1 cannot see user-2's "Weekly", but every owner sees the global template.
	_, err = svc.UpdateTemplate(ctx, owner, global.ID, &reportSvc.UpdateTemplateRequest{Name: strPtr("weekly")})
	var uniq *domain.UniquenessError
	if !errors.As(err, &uniq) || uniq.ExistingID != other.ID {
		t.Fatalf("expected UniquenessError naming %s, got %v", other.ID, err)
	}

	_, err = svc.CreateTemplate(ctx, &reportSvc.CreateTemplateRequest{Name: "WEEKLY"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict creating a global name owned elsewhere, got %v", err)
	}

	if ok, _ := svc.IsNameAvailable(ctx, "weekly", owner, &global.ID); ok {
		t.Error("renaming a global template must check every owner's names")
	}
	if ok, _ := svc.IsNameAvailable(ctx, "weekly", "", nil); ok {
		t.Error("global name lookup must check every owner's names")
	}

	visible, err := svc.ListVisible(ctx, "user-2")
	if err != nil {
		t.Fatal(err)
	}
	seen := 0
	for _, tpl := range visible {
		if models.SameName(tpl.Name, "weekly") {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("user-2 sees %d templates named weekly, want 1", seen)
	}

	// Owned renames still only compete with what the owner sees.
	mine := createIntro(t, svc, "Intro")
	if _, err := svc.UpdateTemplate(ctx, owner, mine.ID, &reportSvc.UpdateTemplateRequest{Name: strPtr("Weekly")}); err != nil {
		t.Errorf("owned rename to another owner's private name: %v", err)
	}
}

func TestCreateTemplate_RequestValidation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name string
		req  *reportSvc.CreateTemplateRequest
	}{
		{name: "empty name", req: &reportSvc.CreateTemplateRequest{OwnerID: strPtr(owner)}},
		{name: "blank name", req: &reportSvc.CreateTemplateRequest{OwnerID: strPtr(owner), Name: "   "}},
		{name: "name too long", req: &reportSvc.CreateTemplateRequest{OwnerID: strPtr(owner), Name: strings.Repeat("x", 256)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTemplate(context.Background(), tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateTemplate_NoSectionsGetsPlaceholder(t *testing.T) {
	svc := newTestService(t)

	tpl, err := svc.CreateTemplate(context.Background(), &reportSvc.CreateTemplateRequest{OwnerID: strPtr(owner), Name: "Blank"})
	if err != nil {
		t.Fatal(err)
	}
	if len(tpl.Sections) != 1 || tpl.Sections[0].Title != "Section 1" {
		t.Errorf("expected one placeholder section, got %+v", tpl.Sections)
	}
}

func TestCreateTemplate_InvalidSectionBlocksSave(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTemplate(ctx, &reportSvc.CreateTemplateRequest{
		OwnerID: strPtr(owner),
		Name:    "Bad",
		Sections: []models.Section{
			{ID: "ok", Title: "Fine", Content: "<p>ok</p>"},
			{ID: "bad", Title: "Broken", Content: "<script>alert(1)</script>"},
		},
	})

	var verr *domain.SectionValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected SectionValidationError, got %v", err)
	}
	if len(verr.Problems) != 1 || verr.Problems[0].SectionID != "bad" || len(verr.Problems[0].Reasons) == 0 {
		t.Errorf("unexpected problems: %+v", verr.Problems)
	}

	list, _ := svc.ListVisible(ctx, owner)
	if len(list) != 0 {
		t.Error("a rejected template must not be stored")
	}
}

func TestCreateTemplate_SanitizesContent(t *testing.T) {
	svc := newTestService(t)

	// Valid markup that still carries attributes outside the allow-list.
	tpl, err := svc.CreateTemplate(context.Background(), &reportSvc.CreateTemplateRequest{
		OwnerID:  strPtr(owner),
		Name:     "Styled",
		Sections: []models.Section{{Title: "A", Content: `<p style="position: fixed" data-x="1">hi</p>`}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := tpl.Sections[0].Content; got != "<p>hi</p>" {
		t.Errorf("content = %q, want <p>hi</p>", got)
	}
}

func TestCreateTemplate_AsDefault(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	quiz := strPtr("quiz-1")

	first, err := svc.CreateTemplate(ctx, &reportSvc.CreateTemplateRequest{OwnerID: strPtr(owner), Name: "One", QuizID: quiz, IsDefault: true})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.CreateTemplate(ctx, &reportSvc.CreateTemplateRequest{OwnerID: strPtr(owner), Name: "Two", QuizID: quiz, IsDefault: true})
	if err != nil {
		t.Fatal(err)
	}

	if !first.IsDefault || !second.IsDefault {
		t.Fatal("created templates should report is_default")
	}
	if ids := countDefaults(t, svc, quiz); len(ids) != 1 || ids[0] != second.ID {
		t.Errorf("defaults in scope = %v, want only %s", ids, second.ID)
	}
}

func TestUpdateTemplate_BumpsVersion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := createIntro(t, svc, "Intro")

	b, err := svc.UpdateTemplate(ctx, owner, a.ID, &reportSvc.UpdateTemplateRequest{
		Sections: []models.Section{{ID: a.Sections[0].ID, Title: "Intro", Content: "<p>changed</p>"}},
	})
	if err != nil {
		t.Fatalf("UpdateTemplate: %v", err)
	}
	if b.Version != 2 {
		t.Errorf("version = %d, want 2", b.Version)
	}

	stored, err := svc.GetTemplate(ctx, owner, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Version != 2 || stored.Sections[0].Content != "<p>changed</p>" {
		t.Errorf("stored template not updated: %+v", stored)
	}
}

func TestUpdateTemplate_RenameChecksUniqueness(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := createIntro(t, svc, "Intro")
	createIntro(t, svc, "Summary")

	// Same name (case variant) on itself is allowed.
	if _, err := svc.UpdateTemplate(ctx, owner, a.ID, &reportSvc.UpdateTemplateRequest{Name: strPtr("INTRO")}); err != nil {
		t.Fatalf("renaming to a case variant of its own name: %v", err)
	}

	_, err := svc.UpdateTemplate(ctx, owner, a.ID, &reportSvc.UpdateTemplateRequest{Name: strPtr("summary")})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestUpdateTemplate_Errors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := createIntro(t, svc, "Intro")

	_, err := svc.UpdateTemplate(ctx, owner, "missing", &reportSvc.UpdateTemplateRequest{Name: strPtr("x")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = svc.UpdateTemplate(ctx, "someone-else", a.ID, &reportSvc.UpdateTemplateRequest{Name: strPtr("x")})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	_, err = svc.UpdateTemplate(ctx, owner, a.ID, &reportSvc.UpdateTemplateRequest{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for empty patch, got %v", err)
	}
}

func TestUpdateTemplate_EmptySectionsRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := createIntro(t, svc, "Intro")

	_, err := svc.UpdateTemplate(ctx, owner, a.ID, &reportSvc.UpdateTemplateRequest{Sections: []models.Section{}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	stored, err := svc.GetTemplate(ctx, owner, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Version != 1 || len(stored.Sections) != 1 || stored.Sections[0].Content != "<p>hi</p>" {
		t.Errorf("template changed by rejected update: %+v", stored)
	}
}

func TestSave_StripsMarkupFromTitles(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tpl, err := svc.CreateTemplate(ctx, &reportSvc.CreateTemplateRequest{
		OwnerID:  strPtr(owner),
		Name:     "Titles",
		Sections: []models.Section{{Title: `<b>Score</b> <img src=x onerror="alert(1)">& notes`, Content: "<p>x</p>"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := tpl.Sections[0].Title; got != "Score & notes" {
		t.Errorf("title = %q, want %q", got, "Score & notes")
	}

	edited, err := svc.EditSection(ctx, owner, tpl.ID, tpl.Sections[0].ID, &reportSvc.EditSectionRequest{Title: strPtr("<i>Results</i>")})
	if err != nil {
		t.Fatal(err)
	}
	if got := edited.Sections[0].Title; got != "Results" {
		t.Errorf("edited title = %q, want Results", got)
	}
}

func TestUpdateTemplate_ScopeChangeDropsDefault(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := createIntro(t, svc, "Intro")

	if _, err := svc.SetDefault(ctx, owner, a.ID, nil); err != nil {
		t.Fatal(err)
	}
	moved, err := svc.UpdateTemplate(ctx, owner, a.ID, &reportSvc.UpdateTemplateRequest{
		QuizID: reportSvc.OptionalScope{Present: true, Value: strPtr("quiz-9")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if moved.IsDefault || *moved.QuizID != "quiz-9" {
		t.Errorf("unexpected moved template: default=%v quiz=%v", moved.IsDefault, moved.QuizID)
	}
	if ids := countDefaults(t, svc, nil); len(ids) != 0 {
		t.Errorf("global scope still has defaults %v", ids)
	}
}

func TestSetDefault_Singleton(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := createIntro(t, svc, "A")
	b := createIntro(t, svc, "B")

	if _, err := svc.SetDefault(ctx, owner, a.ID, nil); err != nil {
		t.Fatal(err)
	}
	got, err := svc.SetDefault(ctx, owner, b.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != 1 {
		t.Errorf("SetDefault changed version to %d", got.Version)
	}

	if ids := countDefaults(t, svc, nil); len(ids) != 1 || ids[0] != b.ID {
		t.Errorf("defaults = %v, want only %s", ids, b.ID)
	}

	storedA, _ := svc.GetTemplate(ctx, owner, a.ID)
	if storedA.IsDefault {
		t.Error("previous default was not unset")
	}
}

func TestSetDefault_ScopesAreIndependent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := createIntro(t, svc, "A")
	b := createIntro(t, svc, "B")
	quiz := strPtr("quiz-1")

	if _, err := svc.SetDefault(ctx, owner, a.ID, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetDefault(ctx, owner, b.ID, quiz); err != nil {
		t.Fatal(err)
	}

	if ids := countDefaults(t, svc, nil); len(ids) != 1 || ids[0] != a.ID {
		t.Errorf("global defaults = %v, want %s", ids, a.ID)
	}
	if ids := countDefaults(t, svc, quiz); len(ids) != 1 || ids[0] != b.ID {
		t.Errorf("quiz defaults = %v, want %s", ids, b.ID)
	}
}

func TestClearDefault(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := createIntro(t, svc, "A")

	if _, err := svc.SetDefault(ctx, owner, a.ID, nil); err != nil {
		t.Fatal(err)
	}
	got, err := svc.ClearDefault(ctx, owner, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsDefault {
		t.Error("ClearDefault left the flag set")
	}
	if ids := countDefaults(t, svc, nil); len(ids) != 0 {
		t.Errorf("defaults = %v, want none", ids)
	}
}

func TestIsNameAvailable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ok, err := svc.IsNameAvailable(ctx, "Intro", owner, nil)
	if err != nil || !ok {
		t.Fatalf("IsNameAvailable before create = %v, %v", ok, err)
	}

	a := createIntro(t, svc, "intro")

	if ok, _ := svc.IsNameAvailable(ctx, "Intro", owner, nil); ok {
		t.Error("name should be taken after create")
	}
	if ok, _ := svc.IsNameAvailable(ctx, "Intro", owner, &a.ID); !ok {
		t.Error("name should be available when excluding its own template")
	}
	if ok, _ := svc.IsNameAvailable(ctx, "Intro", "user-2", nil); !ok {
		t.Error("another owner's template should not block the name")
	}
}

func TestDuplicateTemplate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := createIntro(t, svc, "Intro")
	if _, err := svc.SetDefault(ctx, owner, a.ID, nil); err != nil {
		t.Fatal(err)
	}

	first, err := svc.DuplicateTemplate(ctx, owner, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if first.Name != "Intro (Copy)" || first.IsDefault || first.Version != 1 || first.ID == a.ID {
		t.Errorf("unexpected copy: %+v", first)
	}
	if first.Sections[0].Content != a.Sections[0].Content {
		t.Error("copy should keep the content")
	}

	second, err := svc.DuplicateTemplate(ctx, owner, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if second.Name != "Intro (Copy 2)" {
		t.Errorf("second copy name = %q, want %q", second.Name, "Intro (Copy 2)")
	}
}

func TestDuplicateTemplate_GlobalBecomesOwned(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	global, err := svc.CreateTemplate(ctx, &reportSvc.CreateTemplateRequest{Name: "Standard"})
	if err != nil {
		t.Fatal(err)
	}
	dup, err := svc.DuplicateTemplate(ctx, owner, global.ID)
	if err != nil {
		t.Fatal(err)
	}
	if dup.OwnerID == nil || *dup.OwnerID != owner {
		t.Errorf("copy owner = %v, want %s", dup.OwnerID, owner)
	}
}

func TestDeleteTemplate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := createIntro(t, svc, "Intro")
	if _, err := svc.SetDefault(ctx, owner, a.ID, nil); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteTemplate(ctx, "intruder", a.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if err := svc.DeleteTemplate(ctx, owner, a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetTemplate(ctx, owner, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if ids := countDefaults(t, svc, nil); len(ids) != 0 {
		t.Errorf("deleting the default should leave none, got %v", ids)
	}
}

func TestSectionOperations(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := createIntro(t, svc, "Intro")
	firstID := a.Sections[0].ID

	// The only section cannot be removed and nothing is saved.
	_, err := svc.RemoveSection(ctx, owner, a.ID, firstID)
	if !errors.Is(err, domain.ErrMinimumSection) {
		t.Fatalf("expected ErrMinimumSection, got %v", err)
	}
	stored, _ := svc.GetTemplate(ctx, owner, a.ID)
	if stored.Version != 1 || len(stored.Sections) != 1 {
		t.Fatalf("failed removal changed the template: %+v", stored)
	}

	added, err := svc.AddSection(ctx, owner, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(added.Sections) != 2 || added.Sections[1].Title != "Section 2" || added.Version != 2 {
		t.Fatalf("unexpected template after AddSection: %+v", added)
	}

	dup, err := svc.DuplicateSection(ctx, owner, a.ID, firstID)
	if err != nil {
		t.Fatal(err)
	}
	if len(dup.Sections) != 3 || dup.Sections[2].Title != "Intro (Copy)" {
		t.Fatalf("unexpected template after DuplicateSection: %+v", dup.Sections)
	}

	edited, err := svc.EditSection(ctx, owner, a.ID, firstID, &reportSvc.EditSectionRequest{
		Title:   strPtr("Welcome"),
		Content: strPtr("<p>Hello {{student_name}}</p>"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if edited.Sections[0].Title != "Welcome" || edited.Sections[0].Content != "<p>Hello {{student_name}}</p>" {
		t.Errorf("unexpected edited section: %+v", edited.Sections[0])
	}

	removed, err := svc.RemoveSection(ctx, owner, a.ID, added.Sections[1].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(removed.Sections) != 2 || removed.Version != 5 {
		t.Errorf("sections=%d version=%d, want 2/5", len(removed.Sections), removed.Version)
	}
}

func TestEditSection_InvalidContentRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := createIntro(t, svc, "Intro")

	_, err := svc.EditSection(ctx, owner, a.ID, a.Sections[0].ID, &reportSvc.EditSectionRequest{
		Content: strPtr(`<a href="javascript:alert(1)">x</a>`),
	})
	var verr *domain.SectionValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected SectionValidationError, got %v", err)
	}
	if verr.Problems[0].SectionID != a.Sections[0].ID {
		t.Errorf("problem reported against %q, want %q", verr.Problems[0].SectionID, a.Sections[0].ID)
	}
}

func TestInsertImage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := createIntro(t, svc, "Intro")

	got, err := svc.InsertImage(ctx, owner, a.ID, a.Sections[0].ID, "https://cdn.example.com/logo.png", "logo")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got.Sections[0].Content, `<img src="https://cdn.example.com/logo.png" alt="logo"/>`) {
		t.Errorf("image not embedded: %q", got.Sections[0].Content)
	}

	if _, err := svc.InsertImage(ctx, owner, a.ID, a.Sections[0].ID, "javascript:alert(1)", ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for script url, got %v", err)
	}
}

func TestValidateSections(t *testing.T) {
	svc := newTestService(t)

	reports := svc.ValidateSections([]models.Section{
		{ID: "a", Title: "Fine", Content: "<p>ok</p>"},
		{ID: "b", Title: "Bad", Content: "<script>alert(1)</script>"},
	})

	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if !reports[0].IsValid || len(reports[0].Errors) != 0 {
		t.Errorf("first section should be valid: %+v", reports[0])
	}
	if reports[1].IsValid || len(reports[1].Errors) == 0 {
		t.Errorf("second section should be invalid with reasons: %+v", reports[1])
	}
}
