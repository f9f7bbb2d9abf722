package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is an HTTP-level rejection: the backend answered with a non-2xx
// status. Message is safe to surface to end users; Detail preserves the raw
// backend text for logs.
type Error struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
}

// AuthRejection reports whether the backend rejected the caller's identity
// rather than the request itself.
func (e *Error) AuthRejection() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// NetworkError is a transport-level failure: the request never produced an
// HTTP response. These are always recoverable from the session's point of
// view and must never by themselves clear cached credentials.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("api: network failure during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is (or wraps) a transport-level failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsAuthRejection reports whether err is an HTTP 401/403 from the backend.
func IsAuthRejection(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.AuthRejection()
}

type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func newError(status int, body []byte) *Error {
	detail := ""
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Detail != "":
			detail = parsed.Detail
		case parsed.Message != "":
			detail = parsed.Message
		case parsed.Error != "":
			detail = parsed.Error
		}
	}
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}
	return &Error{
		StatusCode: status,
		Message:    friendlyMessage(status, detail),
		Detail:     detail,
	}
}

// friendlyMessage maps backend error text onto something renderable in the
// UI. Duplicate-key noise from account creation becomes a sign-in hint, and
// server faults become a generic retry message instead of a stack trace.
func friendlyMessage(status int, detail string) string {
	lower := strings.ToLower(detail)
	if strings.Contains(lower, "duplicate key") || strings.Contains(lower, "already exists") || strings.Contains(lower, "already registered") {
		return "An account with this email already exists. Please sign in instead."
	}
	if status >= http.StatusInternalServerError {
		return "The server is having trouble right now. Please try again later."
	}
	if detail != "" {
		return detail
	}
	switch status {
	case http.StatusUnauthorized:
		return "Invalid credentials."
	case http.StatusNotFound:
		return "Not found."
	default:
		return http.StatusText(status)
	}
}
