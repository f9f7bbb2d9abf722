package logiscore

import "errors"

var (
	// ErrManagerNotReady is returned when a Manager is used before Build or after Close.
	ErrManagerNotReady = errors.New("session manager not ready")
	// ErrNoToken is returned when an operation needs a bearer token and none exists.
	ErrNoToken = errors.New("no token available")
	// ErrNotLoggedIn is returned by operations that require an authenticated session.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrInvalidEmail rejects malformed email addresses before any network call.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrInvalidCode rejects empty or obviously malformed one-time codes locally.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrEmptyPassword rejects blank passwords before any network call.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrRefreshFailed wraps a token refresh the backend rejected.
	ErrRefreshFailed = errors.New("token refresh failed")
)
