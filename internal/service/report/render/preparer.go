// Package render assembles sanitized template sections and report values
// into the payload handed to the external document renderer.
package render

import (
	"html"
	"strings"

	models "quizdash/internal/domain/models/report"
	reportSvc "quizdash/internal/domain/services/report"
)

// Preparer builds renderer payloads.
//
// Each placeholder {{name}} is replaced literally at its first occurrence in
// the assembled document. Set ReplaceAll to resolve every occurrence.
// Unknown placeholders are left as they are. Values are inserted verbatim.
type Preparer struct {
	ReplaceAll bool
}

// Prepare renders each section as an <h2> heading followed by its content, in
// order, then resolves placeholders. Sections must already be sanitized.
func (p Preparer) Prepare(sections []models.Section, vars map[string]string) *reportSvc.RenderPayload {
	var b strings.Builder
	for _, s := range sections {
		b.WriteString("<h2>")
		b.WriteString(html.EscapeString(s.Title))
		b.WriteString("</h2>")
		b.WriteString(s.Content)
	}

	return &reportSvc.RenderPayload{
		HTML:      p.Substitute(b.String(), vars),
		Variables: copyVars(vars),
	}
}

// Substitute resolves {{name}} placeholders in one pass over text. Inserted
// values are never scanned again, so a value that looks like a placeholder
// stays literal and does not use up that placeholder's replacement.
func (p Preparer) Substitute(text string, vars map[string]string) string {
	if len(vars) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	used := make(map[string]bool, len(vars))

	for {
		start := strings.Index(text, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(text[start+2:], "}}")
		if end < 0 {
			break
		}

		name := text[start+2 : start+2+end]
		value, ok := vars[name]
		if !ok || (used[name] && !p.ReplaceAll) {
			// keep one brace and rescan, so "{{{{x}}" still finds {{x}}
			b.WriteString(text[:start+1])
			text = text[start+1:]
			continue
		}

		b.WriteString(text[:start])
		b.WriteString(value)
		used[name] = true
		text = text[start+2+end+2:]
	}

	b.WriteString(text)
	return b.String()
}

// Placeholder returns the template syntax for a variable name
func Placeholder(name string) string {
	return "{{" + name + "}}"
}

func copyVars(vars map[string]string) map[string]string {
	out := make(map[string]string, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	return out
}
