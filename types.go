package logiscore

import (
	"context"
	"io"

	"github.com/logiscore/logiscore-go/api"
	internalaudit "github.com/logiscore/logiscore-go/internal/audit"
	internalmetrics "github.com/logiscore/logiscore-go/internal/metrics"
)

// User is the LogiScore account record. Replaced wholesale on login and
// refresh, never field-patched.
type User = api.User

// UserType classifies a LogiScore account.
type UserType = api.UserType

const (
	// UserTypeShipper is a buyer-side account reviewing freight forwarders.
	UserTypeShipper = api.UserTypeShipper
	// UserTypeForwarder is a freight-forwarder account being reviewed.
	UserTypeForwarder = api.UserTypeForwarder
	// UserTypeAdmin is a LogiScore staff account.
	UserTypeAdmin = api.UserTypeAdmin
)

// AuthResponse is the success shape of every sign-in and sign-up operation.
type AuthResponse = api.AuthResponse

// SignupRequest is the input for password-based registration.
type SignupRequest = api.SignupRequest

// VerifySignupRequest exchanges an emailed one-time code for a new account's session.
type VerifySignupRequest = api.VerifySignupRequest

// State is an immutable snapshot of the session at one point in time.
// Listeners receive State values; nothing reachable from a State aliases
// Manager internals.
type State struct {
	User                 *User
	Token                string
	IsLoading            bool
	Err                  string
	ShowInactivityPrompt bool
}

// LoggedIn reports whether the snapshot carries a full session (both user
// and token present).
func (s State) LoggedIn() bool {
	return s.User != nil && s.Token != ""
}

// Listener observes session state transitions. Callbacks run synchronously
// on the goroutine that caused the transition and must not call back into
// the Manager.
type Listener interface {
	AuthChanged(State)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(State)

// AuthChanged implements [Listener].
func (f ListenerFunc) AuthChanged(s State) { f(s) }

// Client is the backend surface the Manager depends on. *api.Client is the
// production implementation; tests substitute fakes.
type Client interface {
	SendSigninCode(ctx context.Context, email string) (*api.CodeResponse, error)
	SendSignupCode(ctx context.Context, email string, userType UserType, companyName string) (*api.CodeResponse, error)
	VerifySigninCode(ctx context.Context, email, code string) (*api.AuthResponse, error)
	VerifySignupCode(ctx context.Context, req api.VerifySignupRequest) (*api.AuthResponse, error)
	Signin(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Signup(ctx context.Context, req api.SignupRequest) (*api.AuthResponse, error)
	CurrentUser(ctx context.Context, token string) (*api.User, error)
	Refresh(ctx context.Context, token string) (string, error)
	GitHubCallback(ctx context.Context, code string) (*api.AuthResponse, error)
}

var _ Client = (*api.Client)(nil)

// AuditEvent is a structured audit record emitted by the Manager.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the Manager's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// Metrics holds atomic counters for session-lifecycle operations.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all counters.
type MetricsSnapshot = internalmetrics.Snapshot
