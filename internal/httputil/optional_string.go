package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value for JSON PATCH semantics (RFC 7396).
// Go's *string cannot tell an absent field from an explicit null:
//   - Present=false: field absent from JSON (don't change)
//   - Present=true, Value=nil: field is JSON null (clear/set to NULL)
//   - Present=true, Value=&"text": field has value
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON is only called when the field is present in the JSON.
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

// Set returns a present OptionalString holding s
func Set(s string) OptionalString {
	return OptionalString{Present: true, Value: &s}
}

// Null returns a present OptionalString holding JSON null
func Null() OptionalString {
	return OptionalString{Present: true}
}

// Apply writes the value into dst when the field was present
func (o OptionalString) Apply(dst **string) {
	if o.Present {
		*dst = o.Value
	}
}
