package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString distinguishes an absent JSON field from an explicit null (RFC 7396).
//   - Present=false: field absent (don't change)
//   - Present=true, Value=nil: field is null
//   - Present=true, Value=&"id": field has a value
//
// Used for quiz_id, where null means "global".
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON is only invoked when the field is present.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
