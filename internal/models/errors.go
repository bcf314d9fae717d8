package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a requested resource is not found, or when
	// it exists but belongs to someone else and was requested directly. The
	// two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned when a form submission references a record id
	// that is not owned by the acting party. Unlike ErrNotFound this is
	// surfaced as an explicit permission warning, because the submission came
	// through the form layer legitimately but targeted a foreign record.
	ErrForbidden = errors.New("record not owned by acting party")

	// ErrPersistence is returned when a create or write against the business
	// store fails. The underlying cause is not interpreted and the operation
	// is never retried; a retry of a partially applied create could duplicate
	// a record.
	ErrPersistence = errors.New("business store operation failed")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// FieldError is one human-readable validation failure, carrying the field's
// label the way the form renders it.
type FieldError struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Label, e.Message)
}

// ValidationError collects all field-level failures of one submission. No
// persistence happens when it is returned, and the submitted form state is
// preserved for correction.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages returns one message per offending field, for flash-style display.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return msgs
}
