package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mkrupp/smart-interviewer/internal/domain"
)

// ErrInternal is the message sent to clients for unexpected faults.
const ErrInternal = "Internal server error."

// ErrMalformedBody is returned by DecodeJSON for bodies that are not valid JSON.
var ErrMalformedBody = errors.New("malformed request body")

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an {"error": message} body with the given status code.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, domain.ErrorResponse{Error: message})
}

// DecodeJSON decodes the request body into v.
// Bodies exceeding the configured size limit are reported as domain.ErrValidation.
func DecodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return domain.NewValidationError("request body exceeds %d bytes", maxBytesErr.Limit)
	}

	return errors.Join(domain.NewValidationError("request body is not valid JSON"),
		fmt.Errorf("%w: %w", ErrMalformedBody, err))
}
