package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxJSONBodyBytes bounds JSON request bodies. A full template at its
// section and content limits fits comfortably.
const MaxJSONBodyBytes = 32 << 20

// ErrEmptyBody is returned by ParseJSON when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

// ParseJSON decodes a JSON request body into dest, rejecting trailing data.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if decoder.More() {
		return errors.New("invalid JSON: unexpected data after object")
	}

	return nil
}

// ParseOptionalJSON is ParseJSON that treats an empty body as a zero value.
func ParseOptionalJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	if r.ContentLength == 0 {
		return nil
	}
	if err := ParseJSON(w, r, dest); err != nil && !errors.Is(err, ErrEmptyBody) {
		return err
	}
	return nil
}
