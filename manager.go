package logiscore

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/logiscore/logiscore-go/api"
	"github.com/logiscore/logiscore-go/storage"
)

// Manager is the single source of truth for the caller's authentication
// state. It reconciles in-memory state, the durable storage mirror, and the
// backend's opinion of the session, and owns the inactivity timers.
//
// Construct through [Builder.Build]. All methods are safe for concurrent
// use; the background sweep and an interactive call may both attempt a
// refresh around the same time, which is tolerated because refresh is idempotent
// on the backend and the last successful write to storage wins.
type Manager struct {
	config  Config
	client  Client
	store   storage.Store
	audit   *auditDispatcher
	metrics *Metrics
	logger  *zap.Logger
	now     func() time.Time

	mu           sync.Mutex
	state        State
	listeners    map[uint64]Listener
	nextListener uint64

	idleTimer    *time.Timer
	promptTimer  *time.Timer
	activityGate *rate.Limiter

	sweepStop chan struct{}
	sweepWG   sync.WaitGroup
	closeOnce sync.Once
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() State {
	s := m.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Subscribe registers a listener for state transitions and returns its
// unsubscribe function. The listener is not called with the current state;
// call [Manager.Snapshot] for that.
func (m *Manager) Subscribe(l Listener) func() {
	if l == nil {
		return func() {}
	}
	m.mu.Lock()
	id := m.nextListener
	m.nextListener++
	m.listeners[id] = l
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) listenersLocked() []Listener {
	if len(m.listeners) == 0 {
		return nil
	}
	out := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		out = append(out, l)
	}
	return out
}

func (m *Manager) publish(snap State, ls []Listener) {
	for _, l := range ls {
		l.AuthChanged(snap)
	}
}

// setAuth installs a full session: memory first, then the durable mirror,
// then listeners. Restarts inactivity tracking.
func (m *Manager) setAuth(ctx context.Context, user *User, tok string) {
	u := *user

	m.mu.Lock()
	m.state = State{User: &u, Token: tok}
	m.startInactivityLocked()
	snap := m.snapshotLocked()
	ls := m.listenersLocked()
	m.mu.Unlock()

	m.saveSession(ctx, &u, tok)
	m.publish(snap, ls)
}

// Logout clears memory state, wipes durable storage, and tears down the
// inactivity timers. Idempotent: safe to call any number of times from any
// state, including concurrently with in-flight operations (a stale in-flight
// write loses to the reset because it re-reads state before mutating).
func (m *Manager) Logout() {
	m.mu.Lock()
	userID := ""
	if m.state.User != nil {
		userID = m.state.User.ID
	}
	changed := m.state.User != nil || m.state.Token != "" || m.state.Err != "" ||
		m.state.IsLoading || m.state.ShowInactivityPrompt
	m.stopInactivityLocked()
	m.state = State{}
	ls := m.listenersLocked()
	m.mu.Unlock()

	m.clearStorage(context.Background())

	if changed {
		m.metricInc(MetricLogout)
		m.audit.emit(context.Background(), auditEventLogout, userID, "", true, "")
		m.publish(State{}, ls)
	}
}

// Close stops the background sweep, cancels outstanding timers, and flushes
// the audit dispatcher. It does not log the session out: the durable mirror
// is left intact so the next process can rehydrate it.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	m.closeOnce.Do(func() {
		if m.sweepStop != nil {
			close(m.sweepStop)
			m.sweepWG.Wait()
		}
		m.mu.Lock()
		if m.idleTimer != nil {
			m.idleTimer.Stop()
			m.idleTimer = nil
		}
		if m.promptTimer != nil {
			m.promptTimer.Stop()
			m.promptTimer = nil
		}
		m.mu.Unlock()
		m.audit.Close()
	})
}

// beginOp marks a login/refresh/register call in flight and clears the
// previous operation's error.
func (m *Manager) beginOp() {
	m.mu.Lock()
	m.state.IsLoading = true
	m.state.Err = ""
	snap := m.snapshotLocked()
	ls := m.listenersLocked()
	m.mu.Unlock()
	m.publish(snap, ls)
}

// failOp records a human-readable error without disturbing any existing
// session. A failed new login attempt must not log out an already
// authenticated caller.
func (m *Manager) failOp(msg string) {
	m.mu.Lock()
	m.state.IsLoading = false
	m.state.Err = msg
	snap := m.snapshotLocked()
	ls := m.listenersLocked()
	m.mu.Unlock()
	m.publish(snap, ls)
}

func (m *Manager) saveSession(ctx context.Context, user *User, tok string) {
	if err := m.store.Set(ctx, storage.TokenKey, tok); err != nil {
		m.logger.Warn("session mirror: token write failed", zap.Error(err))
		return
	}
	data, err := json.Marshal(user)
	if err != nil {
		m.logger.Warn("session mirror: user encode failed", zap.Error(err))
		return
	}
	if err := m.store.Set(ctx, storage.UserKey, string(data)); err != nil {
		m.logger.Warn("session mirror: user write failed", zap.Error(err))
		return
	}
	m.touchTimestamp(ctx)
}

func (m *Manager) saveToken(ctx context.Context, tok string) {
	if err := m.store.Set(ctx, storage.TokenKey, tok); err != nil {
		m.logger.Warn("session mirror: token write failed", zap.Error(err))
		return
	}
	m.touchTimestamp(ctx)
}

func (m *Manager) touchTimestamp(ctx context.Context) {
	ms := strconv.FormatInt(m.now().UnixMilli(), 10)
	if err := m.store.Set(ctx, storage.TokenTimestampKey, ms); err != nil {
		m.logger.Warn("session mirror: timestamp write failed", zap.Error(err))
	}
}

func (m *Manager) clearStorage(ctx context.Context) {
	err := m.store.Delete(ctx, storage.TokenKey, storage.UserKey, storage.TokenTimestampKey)
	if err != nil {
		m.logger.Warn("session mirror: clear failed", zap.Error(err))
	}
}

// messageOf turns an operation failure into the user-facing error string
// placed into shared state.
func messageOf(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var ae *api.Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	if api.IsNetwork(err) {
		return "Unable to reach the server. Please check your connection and try again."
	}
	return err.Error()
}
