package bpm

import (
	"errors"
	"fmt"
	"net/http"
)

// Client errors.
var (
	ErrUnauthorized = errors.New("engine rejected the session")
	ErrNilResponse  = errors.New("response is nil")
	ErrLoginFailed  = errors.New("login failed")
)

// APIError is a non-2xx engine response.
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: response status code: %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s: response status code: %d: %s", e.Path, e.StatusCode, e.Message)
}

// Unwrap maps 401 and 403 to ErrUnauthorized.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// engineError is the error body the engine sends with 4xx/5xx responses.
type engineError struct {
	Exception string `json:"exception"`
	Message   string `json:"message"`
}
