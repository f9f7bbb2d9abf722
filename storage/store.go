package storage

import (
	"context"
	"errors"
)

// Storage keys are shared across every LogiScore client surface so sessions
// written by one remain readable by another.
const (
	// TokenKey holds the raw bearer token string.
	TokenKey = "logiscore_token"
	// UserKey holds the JSON-serialized user record.
	UserKey = "logiscore_user"
	// TokenTimestampKey holds a Unix-millisecond string recording when the
	// token was last written. Advisory only; expiry decisions come from the
	// token's own exp claim.
	TokenTimestampKey = "logiscore_token_timestamp"
)

// ErrNotFound is returned by [Store.Get] when a key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is the durable mirror of session state. Implementations must be safe
// for concurrent use; the session manager may touch the store from its
// background sweep while an interactive operation is in flight.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
