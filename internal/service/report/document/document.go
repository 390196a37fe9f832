// Package document holds the in-memory, editable form of a template body.
package document

import (
	"fmt"
	"html"
	"strings"

	"quizdash/internal/domain"
	models "quizdash/internal/domain/models/report"
)

// PlaceholderContent is the body given to sections created with AddSection.
const PlaceholderContent = "<p>Write this section here. Use {{student_name}} or {{score}} to insert report values.</p>"

// SectionController owns one section being edited plus its UI state.
// Controllers are created by a Document and stay valid until the section is removed.
type SectionController struct {
	section  models.Section
	expanded bool
}

// ID returns the section id.
func (c *SectionController) ID() string { return c.section.ID }

// Title returns the current title.
func (c *SectionController) Title() string { return c.section.Title }

// Content returns the current (unsanitized) content.
func (c *SectionController) Content() string { return c.section.Content }

// Expanded reports whether the section is expanded in the editor.
func (c *SectionController) Expanded() bool { return c.expanded }

// Rename replaces the section title.
func (c *SectionController) Rename(title string) {
	c.section.Title = title
}

// SetContent replaces the section body. Content is not sanitized here;
// the save path sanitizes before anything is persisted.
func (c *SectionController) SetContent(content string) {
	c.section.Content = content
}

// InsertImage appends an image referencing an already uploaded URL.
func (c *SectionController) InsertImage(url, alt string) {
	img := fmt.Sprintf(`<p><img src="%s" alt="%s"></p>`, html.EscapeString(url), html.EscapeString(alt))
	c.section.Content += img
}

// Section returns a copy of the persisted fields.
func (c *SectionController) Section() models.Section {
	return c.section
}

// Document is the ordered section list of one template being edited.
// It always holds at least one section.
//
// Not safe for concurrent use.
type Document struct {
	controllers []*SectionController
}

// New returns a document holding a single placeholder section.
func New() *Document {
	d := &Document{}
	d.AddSection()
	return d
}

// Load builds a document from a persisted template body.
func Load(raw string) *Document {
	return FromSections(models.DecodeSections(raw))
}

// FromSections builds a document from sections, repairing ids.
// An empty list yields a document with one placeholder section.
func FromSections(sections []models.Section) *Document {
	d := &Document{}
	for _, s := range models.NormalizeSections(sections) {
		d.controllers = append(d.controllers, &SectionController{section: s})
	}
	if len(d.controllers) == 0 {
		d.AddSection()
	}
	return d
}

// Len returns the number of sections.
func (d *Document) Len() int {
	return len(d.controllers)
}

// Section returns the controller for id.
func (d *Document) Section(id string) (*SectionController, error) {
	_, c, err := d.find(id)
	return c, err
}

// Controllers returns the controllers in document order.
func (d *Document) Controllers() []*SectionController {
	return append([]*SectionController(nil), d.controllers...)
}

// Sections returns the persisted fields of every section in order.
func (d *Document) Sections() []models.Section {
	out := make([]models.Section, len(d.controllers))
	for i, c := range d.controllers {
		out[i] = c.section
	}
	return out
}

// Encode serializes the document for storage. UI state is dropped.
func (d *Document) Encode() string {
	return models.EncodeSections(d.Sections())
}

// AddSection appends a "Section N" placeholder section.
func (d *Document) AddSection() *SectionController {
	c := &SectionController{
		section: models.Section{
			ID:      models.NewSectionID(),
			Title:   fmt.Sprintf("Section %d", len(d.controllers)+1),
			Content: PlaceholderContent,
		},
		expanded: true,
	}
	d.controllers = append(d.controllers, c)
	return c
}

// RemoveSection removes a section. Removing the only section fails with
// *domain.MinimumSectionError and leaves the document unchanged.
func (d *Document) RemoveSection(id string) error {
	i, _, err := d.find(id)
	if err != nil {
		return err
	}
	if len(d.controllers) == 1 {
		return &domain.MinimumSectionError{SectionID: id}
	}
	d.controllers = append(d.controllers[:i], d.controllers[i+1:]...)
	return nil
}

// DuplicateSection appends a copy of a section with a fresh id and a "(Copy)" title.
func (d *Document) DuplicateSection(id string) (*SectionController, error) {
	_, src, err := d.find(id)
	if err != nil {
		return nil, err
	}
	c := &SectionController{
		section: models.Section{
			ID:      models.NewSectionID(),
			Title:   src.section.Title + " (Copy)",
			Content: src.section.Content,
		},
		expanded: src.expanded,
	}
	d.controllers = append(d.controllers, c)
	return c, nil
}

// RenameSection sets the title of a section.
func (d *Document) RenameSection(id, title string) error {
	c, err := d.Section(id)
	if err != nil {
		return err
	}
	c.Rename(title)
	return nil
}

// SetContent sets the body of a section without sanitizing it.
func (d *Document) SetContent(id, content string) error {
	c, err := d.Section(id)
	if err != nil {
		return err
	}
	c.SetContent(content)
	return nil
}

// ToggleExpand flips the expanded state of one section.
func (d *Document) ToggleExpand(id string) error {
	c, err := d.Section(id)
	if err != nil {
		return err
	}
	c.expanded = !c.expanded
	return nil
}

// ToggleAllExpand collapses every section when all are expanded,
// otherwise expands every section.
func (d *Document) ToggleAllExpand() {
	allExpanded := true
	for _, c := range d.controllers {
		if !c.expanded {
			allExpanded = false
			break
		}
	}
	for _, c := range d.controllers {
		c.expanded = !allExpanded
	}
}

func (d *Document) find(id string) (int, *SectionController, error) {
	id = strings.TrimSpace(id)
	for i, c := range d.controllers {
		if c.section.ID == id {
			return i, c, nil
		}
	}
	return -1, nil, fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
}
