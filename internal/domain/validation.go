package domain

import (
	"errors"
	"fmt"
)

// ErrValidation tags errors caused by malformed or missing client input.
var ErrValidation = errors.New("validation failed")

// ValidationError carries a client-facing message for a rejected input.
type ValidationError struct {
	Message string
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ErrorResponse is the JSON body of every failed API request.
type ErrorResponse struct {
	Error string `json:"error"`
}
