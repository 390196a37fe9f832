package report

import "context"

// ValidationResult is the user-facing outcome of checking one piece of rich content.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// ContentSanitizer gates and cleans untrusted section markup.
// Validate is the user-facing gate; Sanitize is what makes content safe to store.
// SanitizeTitle reduces a section title to plain text.
//
// Implementations must be safe for concurrent use.
type ContentSanitizer interface {
	Validate(html string) ValidationResult
	Sanitize(html string) string
	SanitizeTitle(title string) string
}

// ImageUploader stores binary image data and returns a public URL for it.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// RenderPayload is what the external document renderer consumes.
type RenderPayload struct {
	HTML      string            `json:"html"`
	Variables map[string]string `json:"variables"`
}

// DocumentRenderer turns a render payload into a binary document (e.g. PDF).
type DocumentRenderer interface {
	Render(ctx context.Context, payload *RenderPayload) (data []byte, contentType string, err error)
}
