package report

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// LegacySectionTitle is the title given to the single section that wraps
// content persisted in a shape other than a section array.
const LegacySectionTitle = "Content"

// legacyNamespace seeds the deterministic ids of wrapped legacy content.
var legacyNamespace = uuid.MustParse("6f1c8a52-2d0e-4b51-9a8e-3c7d1b0f4e21")

// wireSection is the persisted form of a section. Anything not listed here
// (editor state, controllers) never reaches storage.
type wireSection struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DecodeSections converts a persisted template body into sections.
//
// Accepted shapes:
//   - a JSON array of {id, title, content} objects, used as-is
//   - any other JSON value, wrapped into one "Content" section holding the raw string
//   - text that is not JSON at all, wrapped the same way
//
// It never fails and always returns at least one section.
func DecodeSections(raw string) []Section {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") {
		var wire []wireSection
		if err := json.Unmarshal([]byte(trimmed), &wire); err == nil {
			if len(wire) == 0 {
				return []Section{{ID: legacySectionID(raw), Title: LegacySectionTitle}}
			}
			sections := make([]Section, len(wire))
			for i, w := range wire {
				sections[i] = Section{ID: w.ID, Title: w.Title, Content: w.Content}
			}
			return NormalizeSections(sections)
		}
	}

	return []Section{{
		ID:      legacySectionID(raw),
		Title:   LegacySectionTitle,
		Content: raw,
	}}
}

// EncodeSections serializes sections into the array form written to storage.
func EncodeSections(sections []Section) string {
	wire := make([]wireSection, len(sections))
	for i, s := range sections {
		wire[i] = wireSection{ID: s.ID, Title: s.Title, Content: s.Content}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(wire); err != nil {
		// Only strings are encoded; this cannot happen.
		return "[]"
	}
	return strings.TrimRight(buf.String(), "\n")
}

// NormalizeSections gives every section a unique id, generating one for
// sections that have none and replacing repeated ids. Order is preserved.
func NormalizeSections(sections []Section) []Section {
	seen := make(map[string]bool, len(sections))
	out := make([]Section, len(sections))
	for i, s := range sections {
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" || seen[s.ID] {
			s.ID = NewSectionID()
		}
		seen[s.ID] = true
		out[i] = s
	}
	return out
}

// NewSectionID returns a fresh section id.
func NewSectionID() string {
	return uuid.NewString()
}

func legacySectionID(raw string) string {
	return uuid.NewSHA1(legacyNamespace, []byte(raw)).String()
}
