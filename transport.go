package logiscore

import (
	"errors"
	"net/http"
)

// AuthTransport is an http.RoundTripper for host applications calling other
// LogiScore endpoints. It resolves a valid bearer token through
// [Manager.EnsureValidToken], refreshing inline when needed, and injects
// the Authorization header. Requests made without a session pass through
// unauthenticated; the backend answers 401 and the caller handles it like
// any other rejection.
type AuthTransport struct {
	Manager *Manager
	// Base is the underlying transport. Nil means http.DefaultTransport.
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Manager == nil {
		return nil, ErrManagerNotReady
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	tok, err := t.Manager.EnsureValidToken(req.Context())
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			return nil, err
		}
		tok = ""
	}

	if tok == "" {
		return base.RoundTrip(req)
	}

	// Per RoundTripper contract the request must not be mutated.
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+tok)
	return base.RoundTrip(clone)
}

// HTTPClient returns an http.Client whose requests carry the session's
// bearer token, kept fresh automatically.
func (m *Manager) HTTPClient() *http.Client {
	return &http.Client{Transport: &AuthTransport{Manager: m}}
}
