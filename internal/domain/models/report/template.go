package report

import (
	"strings"
	"time"
)

// Template is a named, versioned report document made of ordered sections.
// OwnerID nil marks a system (global) template; QuizID nil applies to all quizzes.
type Template struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	OwnerID   *string   `json:"created_by" db:"created_by"`
	QuizID    *string   `json:"quiz_id" db:"quiz_id"`
	IsDefault bool      `json:"is_default" db:"is_default"`
	Version   int       `json:"version" db:"version"`
	Sections  []Section `json:"sections"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Section is one titled block of rich content inside a template.
type Section struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// IsGlobal reports whether the template is a system template visible to everyone.
func (t *Template) IsGlobal() bool {
	return t.OwnerID == nil
}

// VisibleTo reports whether ownerID can see the template.
func (t *Template) VisibleTo(ownerID string) bool {
	return t.OwnerID == nil || *t.OwnerID == ownerID
}

// InScope reports whether the template belongs to the given quiz scope.
// A nil scope is the global scope.
func (t *Template) InScope(scope *string) bool {
	return SameScope(t.QuizID, scope)
}

// SameScope compares two scope values, treating nil as its own value.
func SameScope(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// SameName compares template names the way the uniqueness rule does.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Clone returns a deep copy so callers can mutate sections freely.
func (t *Template) Clone() *Template {
	c := *t
	c.Sections = append([]Section(nil), t.Sections...)
	if t.OwnerID != nil {
		owner := *t.OwnerID
		c.OwnerID = &owner
	}
	if t.QuizID != nil {
		quiz := *t.QuizID
		c.QuizID = &quiz
	}
	return &c
}
