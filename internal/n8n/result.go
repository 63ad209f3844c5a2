package n8n

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Result is the outcome of one HTTP call.
//
// OK() distinguishes success from failure explicitly: a successful call with
// an empty body has OK() == true and Data == nil, a failed call always has a
// non-nil Err.
type Result struct {
	// Data is the decoded JSON body (or the raw text if it was not JSON).
	Data interface{}
	// Raw is the undecoded response body.
	Raw []byte
	// StatusCode is 0 when no response was received.
	StatusCode int
	Err        error
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Decode unmarshals the raw body into v.
func (r Result) Decode(v interface{}) error {
	if !r.OK() {
		return r.Err
	}
	if len(r.Raw) == 0 {
		return errors.New("empty response body")
	}
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Object returns Data as a JSON object, or nil.
func (r Result) Object() map[string]interface{} {
	m, _ := r.Data.(map[string]interface{})
	return m
}

// Describe renders the failure for diagnostics: "HTTP 404: body" or the
// transport error.
func (r Result) Describe() string {
	if r.OK() {
		return fmt.Sprintf("HTTP %d", r.StatusCode)
	}
	return r.Err.Error()
}
