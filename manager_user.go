package logiscore

import (
	"context"
	"encoding/json"

	"github.com/logiscore/logiscore-go/api"
	"github.com/logiscore/logiscore-go/storage"
	"github.com/logiscore/logiscore-go/token"
)

// CurrentUser resolves the effective token (tokenOverride if non-empty, else
// the in-memory token), refreshes it first when the local expiry check says
// it is stale, and asks the backend who the caller is. On success the user
// record is overwritten in memory and the durable mirror.
//
// Failure handling follows the recoverability split: a transport-level
// failure preserves the session unchanged; an authentication rejection
// clears the session only when no previously validated user exists to fall
// back on. With a cached user the session is preserved optimistically, since
// a backend hiccup should not evict an identity this process already
// validated, and the call reports success.
func (m *Manager) CurrentUser(ctx context.Context, tokenOverride string) error {
	tok := tokenOverride
	if tok == "" {
		tok = m.Snapshot().Token
	}
	if tok == "" {
		return ErrNoToken
	}

	if token.Expired(tok, m.now(), m.config.Token.ExpiryBuffer) {
		if fresh, err := m.refreshWith(ctx, tok); err == nil {
			tok = fresh
		}
		// A failed refresh is not fatal here: the token may still be inside
		// the safety buffer, and the backend is the authority either way.
	}

	user, err := m.client.CurrentUser(ctx, tok)
	if err != nil {
		return m.currentUserFailed(ctx, err)
	}

	m.setAuth(ctx, user, tok)
	m.metricInc(MetricCurrentUserSuccess)
	m.audit.emit(ctx, auditEventCurrentUser, user.ID, user.Email, true, "")
	return nil
}

func (m *Manager) currentUserFailed(ctx context.Context, err error) error {
	if api.IsNetwork(err) {
		// Flaky connectivity must not look like invalid credentials.
		m.metricInc(MetricNetworkPreserved)
		m.audit.emit(ctx, auditEventCurrentUser, "", "", false, err.Error())
		return err
	}

	m.mu.Lock()
	cached := m.state.User != nil
	userID := ""
	if cached {
		userID = m.state.User.ID
	}
	m.mu.Unlock()

	if cached {
		// Optimistic preservation: the identity was already validated in
		// this process. Only the advisory token timestamp is touched.
		m.touchTimestamp(ctx)
		m.audit.emit(ctx, auditEventCurrentUser, userID, "", false, err.Error())
		return nil
	}

	if !api.IsAuthRejection(err) {
		// Server fault with nothing cached: report it, keep the token, and
		// let a later call retry.
		m.failOp(messageOf(err, "Failed to get current user"))
		return err
	}

	m.mu.Lock()
	m.stopInactivityLocked()
	m.state = State{Err: messageOf(err, "Failed to get current user")}
	snap := m.snapshotLocked()
	ls := m.listenersLocked()
	m.mu.Unlock()

	m.clearStorage(ctx)
	m.metricInc(MetricCurrentUserFailure)
	m.audit.emit(ctx, auditEventCurrentUser, "", "", false, err.Error())
	m.publish(snap, ls)
	return err
}

// CheckAuth reconciles memory, durable storage, and the backend. It is run
// once at startup and safe to call repeatedly; it never returns an error.
// Every branch degrades to "no session" on unrecoverable failure, except
// transport failures, which leave existing state untouched.
//
// Precedence: a full in-memory session is simply re-mirrored to storage
// (refreshing first if the token is stale); a token without a user resolves
// the user via [Manager.CurrentUser]; an empty memory hydrates from storage.
func (m *Manager) CheckAuth(ctx context.Context) {
	snap := m.Snapshot()
	switch {
	case snap.Token != "" && snap.User != nil:
		tok := snap.Token
		if token.Expired(tok, m.now(), m.config.Token.ExpiryBuffer) {
			fresh, err := m.refreshWith(ctx, tok)
			if err != nil {
				if api.IsNetwork(err) {
					return
				}
				m.Logout()
				return
			}
			tok = fresh
		}
		m.saveSession(ctx, snap.User, tok)

	case snap.Token != "":
		_ = m.CurrentUser(ctx, snap.Token)

	default:
		m.hydrate(ctx)
	}
}

// hydrate recovers a session from the durable mirror before any network
// round-trip, refreshing a stale stored token exactly once before deciding
// whether to adopt or discard it.
func (m *Manager) hydrate(ctx context.Context) {
	tok, err := m.store.Get(ctx, storage.TokenKey)
	if err != nil || tok == "" {
		return
	}

	var user *User
	if raw, uerr := m.store.Get(ctx, storage.UserKey); uerr == nil {
		var u User
		if jerr := json.Unmarshal([]byte(raw), &u); jerr == nil && u.ID != "" {
			user = &u
		}
	}

	if token.Expired(tok, m.now(), m.config.Token.ExpiryBuffer) {
		fresh, rerr := m.refreshWith(ctx, tok)
		if rerr != nil {
			if api.IsNetwork(rerr) {
				// Storage is kept: a later CheckAuth may succeed once the
				// network recovers.
				return
			}
			m.metricInc(MetricHydrateFailure)
			m.audit.emit(ctx, auditEventHydrate, "", "", false, rerr.Error())
			m.clearStorage(ctx)
			return
		}
		tok = fresh
	}

	if user == nil {
		_ = m.CurrentUser(ctx, tok)
		return
	}

	m.setAuth(ctx, user, tok)
	m.metricInc(MetricHydrateSuccess)
	m.audit.emit(ctx, auditEventHydrate, user.ID, user.Email, true, "")
}
