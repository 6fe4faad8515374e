package catalog

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("product not found")

// ValidationError reports a missing or malformed product field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missing(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "missing required field: " + field}
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("invalid %s: %s", field, reason)}
}
