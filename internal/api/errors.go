package api

import (
	"encoding/json" // JSON decoding of error bodies
	"errors"        // Sentinel errors
	"fmt"           // Error formatting
	"net/http"      // HTTP status codes
	"strings"       // String trimming
)

// ErrNotFound marks a 404 from the backend (referenced entity absent)
var ErrNotFound = errors.New("not found")

// APIError is a non-success response from the wallet backend
type APIError struct {
	StatusCode  int               // HTTP status code
	Message     string            // Server-supplied message, if any
	FieldErrors map[string]string // Per-field errors from a {errors: ...} body
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.StatusCode)
}

// Is lets errors.Is match ErrNotFound on 404 responses
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// decodeError builds an *APIError from a non-2xx response body. Depending on
// the endpoint the backend answers with JSON {message}, JSON {errors} or a
// plain-text body, so all three shapes are tolerated.
func decodeError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var payload struct {
		Message string            `json:"message"` // Operation-level message
		Errors  map[string]string `json:"errors"`  // Field-level messages
	}
	if err := json.Unmarshal(body, &payload); err == nil && (payload.Message != "" || len(payload.Errors) > 0) {
		apiErr.Message = payload.Message
		apiErr.FieldErrors = payload.Errors
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body)) // Fall back to the raw body text
	return apiErr
}
