package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// AuthError indicates that the backend rejected the installed credentials.
// It is returned whenever a request comes back with HTTP 401.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// ValidationError carries per-field messages from a rejected create or
// update, keyed by field name as reported by the backend.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Flatten())
}

// Flatten joins every field message into one flat display string.
// Fields are visited in sorted order so the output is stable.
func (e *ValidationError) Flatten() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var msgs []string
	for _, name := range names {
		msgs = append(msgs, e.Fields[name]...)
	}
	return strings.Join(msgs, ", ")
}

// IsValidationError reports whether err (or any error in its chain) is a
// ValidationError.
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// parseValidationError interprets a 400 response body as a map of field
// names to message lists. Single-string values are accepted as well since
// the backend uses both shapes ("detail" vs. per-field lists). Returns nil
// when the body is not a field-error object.
func parseValidationError(body []byte) *ValidationError {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return nil
	}

	fields := make(map[string][]string, len(raw))
	for name, val := range raw {
		var list []string
		if err := json.Unmarshal(val, &list); err == nil {
			fields[name] = list
			continue
		}
		var single string
		if err := json.Unmarshal(val, &single); err == nil {
			fields[name] = []string{single}
			continue
		}
		// Non-string payloads (nested objects) are not field errors.
		return nil
	}

	return &ValidationError{Fields: fields}
}
