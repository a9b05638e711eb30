package schema

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	// Path is the dot-separated path to the invalid value.
	Path string

	// Message describes what's wrong.
	Message string

	// Value is the invalid value (may be nil).
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects multiple validation errors so that one
// construction attempt reports every failing field.
type ValidationErrors struct {
	Errors []*ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e.Errors), strings.Join(msgs, "\n  - "))
}

// Add adds a validation error.
func (e *ValidationErrors) Add(path, message string) {
	e.Errors = append(e.Errors, &ValidationError{Path: path, Message: message})
}

// AddWithValue adds a validation error carrying the invalid value.
func (e *ValidationErrors) AddWithValue(path, message string, value any) {
	e.Errors = append(e.Errors, &ValidationError{Path: path, Message: message, Value: value})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// AsError returns nil if no errors, otherwise returns self.
func (e *ValidationErrors) AsError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// ImageConsistencyError indicates that a target's composite image
// reference disagrees with its independently specified repository or
// tag. It is reported on its own, not aggregated, because the
// reconciliation only runs once the target's fields have passed
// validation individually.
type ImageConsistencyError struct {
	// Path is the dot-separated path to the image field.
	Path string

	// Image is the explicit composite reference.
	Image string

	// Field is the sibling field that disagrees ("repository" or "tag").
	Field string

	// Want is the value parsed out of Image.
	Want string

	// Got is the independently specified sibling value.
	Got string

	// Reason overrides the standard message when the failure is not a
	// plain mismatch (malformed reference, incomplete pair).
	Reason string
}

// Error implements the error interface.
func (e *ImageConsistencyError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: image %q implies %s %q, but %s is set to %q",
		e.Path, e.Image, e.Field, e.Want, e.Field, e.Got)
}
