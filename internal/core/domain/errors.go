package domain

import (
	"errors"
	"sort"
	"strings"
)

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternalServer = errors.New("internal server error")
)

// ValidationError carries the offending field names.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Fields  []string
	Message string
}

// NewValidationError builds a ValidationError for the given fields
func NewValidationError(message string, fields ...string) *ValidationError {
	sort.Strings(fields)
	return &ValidationError{Fields: fields, Message: message}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// AsValidation unwraps err into a ValidationError when it is one
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
