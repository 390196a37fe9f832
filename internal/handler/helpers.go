package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"quizdash/internal/domain"
	"quizdash/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses.
// Typed errors that carry extra detail are matched before their sentinels.
func handleError(w http.ResponseWriter, err error) {
	var (
		sectionErr    *domain.SectionValidationError
		minimumErr    *domain.MinimumSectionError
		uniquenessErr *domain.UniquenessError
		conflictErr   *domain.ConflictError
		tooLargeErr   *http.MaxBytesError
	)

	switch {
	case errors.As(err, &sectionErr):
		httputil.RespondErrorWithExtras(w, http.StatusUnprocessableEntity, "one or more sections contain invalid content",
			map[string]interface{}{"problems": sectionErr.Problems})
	case errors.As(err, &minimumErr):
		httputil.RespondErrorWithExtras(w, http.StatusUnprocessableEntity, minimumErr.Error(),
			map[string]interface{}{"section_id": minimumErr.SectionID})
	case errors.As(err, &uniquenessErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, uniquenessErr.Error(),
			map[string]interface{}{"existing_id": uniquenessErr.ExistingID})
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.As(err, &tooLargeErr):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLargeErr.Limit))
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrTransport), errors.Is(err, context.DeadlineExceeded):
		httputil.RespondError(w, http.StatusServiceUnavailable, "storage or renderer unavailable, please retry")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireUser returns the authenticated caller or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}

// uploadedFile is one file read from a multipart form.
type uploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// readMultipartFile reads the named file field, refusing anything above limit bytes.
func readMultipartFile(w http.ResponseWriter, r *http.Request, field string, limit int64) (*uploadedFile, error) {
	// Leave room for the multipart framing and small text fields.
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, &domain.ValidationError{Message: "failed to parse multipart form"}
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("missing %q file", field)}
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("file exceeds %d bytes", limit)}
	}

	return &uploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
