package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d) on %s %s: %s", e.StatusCode, e.Method, e.Path, e.Detail)
}

// AuthError indicates that the bearer token is missing, invalid or expired.
// It is returned when the backend answers 401.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return "authentication required"
	}
	return "authentication failed: " + e.Detail
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// errorDetail extracts a message from a backend error body. The backend
// answers {"detail": "..."} or {"detail": [...validation errors...]};
// anything else is returned as raw text.
func errorDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			return s
		}
		return string(payload.Detail)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "request failed"
	}
	return text
}
