package models

import "errors"

// Sentinel errors shared by repositories, services and handlers.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrNotConfigured = errors.New("not configured")
	ErrUpstream      = errors.New("upstream error")
	ErrParse         = errors.New("parse error")
)

// FieldError describes an invalid input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return "validation: " + e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error { return ErrValidation }

// NewFieldError creates a FieldError for a single field.
func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}
