package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"quizdash/internal/domain"
	models "quizdash/internal/domain/models/report"
)

func TestNew_HasOnePlaceholderSection(t *testing.T) {
	d := New()
	if d.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", d.Len())
	}
	s := d.Sections()[0]
	if s.Title != "Section 1" || s.Content != PlaceholderContent || s.ID == "" {
		t.Errorf("unexpected placeholder section: %+v", s)
	}
}

func TestAddSection_NumbersTitles(t *testing.T) {
	d := FromSections([]models.Section{{ID: "a", Title: "Intro", Content: "<p>x</p>"}})

	second := d.AddSection()
	third := d.AddSection()

	if second.Title() != "Section 2" || third.Title() != "Section 3" {
		t.Errorf("titles = %q, %q; want Section 2, Section 3", second.Title(), third.Title())
	}
	if second.ID() == third.ID() || second.ID() == "a" {
		t.Error("added sections must get fresh unique ids")
	}
}

func TestRemoveSection_MinimumGuard(t *testing.T) {
	d := FromSections([]models.Section{{ID: "only", Title: "Only", Content: "<p>x</p>"}})
	before := d.Sections()

	err := d.RemoveSection("only")

	var minErr *domain.MinimumSectionError
	if !errors.As(err, &minErr) {
		t.Fatalf("expected MinimumSectionError, got %v", err)
	}
	if !errors.Is(err, domain.ErrMinimumSection) {
		t.Error("error should match ErrMinimumSection")
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d after failed removal, want 1", d.Len())
	}
	if diff := cmp.Diff(before, d.Sections()); diff != "" {
		t.Errorf("document changed after failed removal (-before +after):\n%s", diff)
	}
}

func TestRemoveSection(t *testing.T) {
	d := FromSections([]models.Section{
		{ID: "a", Title: "A"},
		{ID: "b", Title: "B"},
		{ID: "c", Title: "C"},
	})

	if err := d.RemoveSection("b"); err != nil {
		t.Fatalf("RemoveSection: %v", err)
	}

	want := []models.Section{{ID: "a", Title: "A"}, {ID: "c", Title: "C"}}
	if diff := cmp.Diff(want, d.Sections()); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
	if _, err := d.Section("b"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("removed section still reachable: %v", err)
	}
}

func TestRemoveSection_UnknownID(t *testing.T) {
	d := FromSections([]models.Section{{ID: "a"}, {ID: "b"}})
	if err := d.RemoveSection("zzz"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}
}

func TestDuplicateSection_AppendsAtEnd(t *testing.T) {
	d := FromSections([]models.Section{
		{ID: "a", Title: "Intro", Content: "<p>hi</p>"},
		{ID: "b", Title: "Outro", Content: "<p>bye</p>"},
	})

	dup, err := d.DuplicateSection("a")
	if err != nil {
		t.Fatalf("DuplicateSection: %v", err)
	}

	sections := d.Sections()
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	last := sections[2]
	if last.ID != dup.ID() || last.ID == "a" {
		t.Errorf("copy should be last with a fresh id, got %+v", last)
	}
	if last.Title != "Intro (Copy)" || last.Content != "<p>hi</p>" {
		t.Errorf("unexpected copy: %+v", last)
	}
	if sections[1].ID != "b" {
		t.Error("copy must not be inserted next to its source")
	}
}

func TestRenameAndSetContent(t *testing.T) {
	d := FromSections([]models.Section{{ID: "a", Title: "Old", Content: "<p>old</p>"}})

	if err := d.RenameSection("a", "New"); err != nil {
		t.Fatal(err)
	}
	// Transiently invalid content is allowed while editing.
	if err := d.SetContent("a", "<p>unclosed <script>"); err != nil {
		t.Fatal(err)
	}

	got := d.Sections()[0]
	if got.Title != "New" || got.Content != "<p>unclosed <script>" {
		t.Errorf("unexpected section: %+v", got)
	}
	if err := d.RenameSection("missing", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestToggleExpand(t *testing.T) {
	d := FromSections([]models.Section{{ID: "a"}, {ID: "b"}})

	if err := d.ToggleExpand("a"); err != nil {
		t.Fatal(err)
	}
	a, _ := d.Section("a")
	b, _ := d.Section("b")
	if !a.Expanded() || b.Expanded() {
		t.Fatalf("expanded = %v/%v, want true/false", a.Expanded(), b.Expanded())
	}

	// Not all expanded: expand everything.
	d.ToggleAllExpand()
	if !a.Expanded() || !b.Expanded() {
		t.Fatal("ToggleAllExpand should expand all when some are collapsed")
	}

	// All expanded: collapse everything.
	d.ToggleAllExpand()
	if a.Expanded() || b.Expanded() {
		t.Fatal("ToggleAllExpand should collapse all when all are expanded")
	}
}

func TestEncode_DropsUIStateAndRoundTrips(t *testing.T) {
	d := New()
	d.AddSection()
	first := d.Controllers()[0]
	first.SetContent(`<p class="x">Hello {{student_name}}</p>`)
	d.ToggleAllExpand()

	encoded := d.Encode()
	if strings.Contains(encoded, "expanded") {
		t.Errorf("UI state leaked into encoded form: %s", encoded)
	}

	if diff := cmp.Diff(d.Sections(), Load(encoded).Sections()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertImage(t *testing.T) {
	d := FromSections([]models.Section{{ID: "a", Content: "<p>logo:</p>"}})
	c, err := d.Section("a")
	if err != nil {
		t.Fatal(err)
	}

	c.InsertImage("https://cdn.example.com/img.png?a=1&b=2", `School "logo"`)

	want := `<p>logo:</p><p><img src="https://cdn.example.com/img.png?a=1&amp;b=2" alt="School &#34;logo&#34;"></p>`
	if got := c.Content(); got != want {
		t.Errorf("Content() = %q, want %q", got, want)
	}
}

func TestFromSections_Empty(t *testing.T) {
	d := FromSections(nil)
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
}

func TestLoad_Legacy(t *testing.T) {
	d := Load("<p>hi</p>")
	sections := d.Sections()
	if len(sections) != 1 || sections[0].Title != models.LegacySectionTitle || sections[0].Content != "<p>hi</p>" {
		t.Errorf("unexpected legacy load: %+v", sections)
	}
}
