package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("already exists")
	ErrValidation     = errors.New("validation failed")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrMinimumSection = errors.New("template must keep at least one section")
	ErrTransport      = errors.New("store unavailable")
)

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates the caller may not touch the resource
	ForbiddenError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (template, section)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) StatusCode() int      { return http.StatusConflict }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// UniquenessError is returned when a template name collides with another
// template visible to the same owner (case-insensitive).
type UniquenessError struct {
	Name       string
	ExistingID string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("a template named %q already exists", e.Name)
}

func (e *UniquenessError) StatusCode() int      { return http.StatusConflict }
func (e *UniquenessError) Is(target error) bool { return target == ErrConflict }

// MinimumSectionError is returned when removing the only section of a template.
// No state is changed when it is returned.
type MinimumSectionError struct {
	SectionID string
}

func (e *MinimumSectionError) Error() string {
	return fmt.Sprintf("cannot remove section %s: %s", e.SectionID, ErrMinimumSection.Error())
}

func (e *MinimumSectionError) StatusCode() int      { return http.StatusUnprocessableEntity }
func (e *MinimumSectionError) Is(target error) bool { return target == ErrMinimumSection }

// SectionProblem lists the reasons a single section failed validation.
type SectionProblem struct {
	SectionID string   `json:"section_id"`
	Title     string   `json:"title"`
	Reasons   []string `json:"reasons"`
}

// SectionValidationError blocks a save because one or more sections hold
// content that failed the markup checks. Each problem is reported against its section.
type SectionValidationError struct {
	Problems []SectionProblem
}

func (e *SectionValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("section %q: %s", p.Title, strings.Join(p.Reasons, "; ")))
	}
	return "invalid section content: " + strings.Join(parts, ", ")
}

func (e *SectionValidationError) StatusCode() int      { return http.StatusUnprocessableEntity }
func (e *SectionValidationError) Is(target error) bool { return target == ErrValidation }

// TransportError wraps a failure of the underlying store or network.
// The triggering action is safe to retry with the same inputs.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error        { return e.Err }
func (e *TransportError) StatusCode() int      { return http.StatusServiceUnavailable }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }
