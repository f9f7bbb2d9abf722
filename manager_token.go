package logiscore

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/logiscore/logiscore-go/api"
	"github.com/logiscore/logiscore-go/token"
)

// RefreshToken exchanges the current (possibly near-expired) token for a new
// one. On success the durable mirror is overwritten and the new token is
// installed in memory. On failure it returns an error wrapping
// [ErrRefreshFailed] without forcing logout; callers decide.
func (m *Manager) RefreshToken(ctx context.Context) (string, error) {
	snap := m.Snapshot()
	if snap.Token == "" {
		return "", ErrNoToken
	}
	return m.refreshWith(ctx, snap.Token)
}

// refreshWith performs the exchange for an explicit token, which lets
// hydration refresh a stored token before anything is in memory. Duplicate
// concurrent refreshes are tolerated: each succeeds or fails independently
// and the last successful storage write wins.
func (m *Manager) refreshWith(ctx context.Context, tok string) (string, error) {
	fresh, err := m.client.Refresh(ctx, tok)
	if err != nil {
		m.metricInc(MetricRefreshFailure)
		m.audit.emit(ctx, auditEventRefresh, "", "", false, err.Error())
		m.logger.Debug("token refresh failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	m.mu.Lock()
	hadSession := m.state.LoggedIn()
	if m.state.Token != "" {
		m.state.Token = fresh
	}
	if hadSession {
		// A successful refresh counts as session liveness.
		m.startInactivityLocked()
	}
	snap := m.snapshotLocked()
	ls := m.listenersLocked()
	m.mu.Unlock()

	m.saveToken(ctx, fresh)
	m.metricInc(MetricRefreshSuccess)
	m.audit.emit(ctx, auditEventRefresh, "", "", true, "")
	if hadSession {
		m.publish(snap, ls)
	}
	return fresh, nil
}

// EnsureValidToken returns a token suitable for an immediate backend call,
// refreshing inline when the local expiry check says the current one is
// stale. A refresh the backend rejects logs the session out and returns the
// error; a transport-level refresh failure returns the error with the
// session preserved.
func (m *Manager) EnsureValidToken(ctx context.Context) (string, error) {
	snap := m.Snapshot()
	if snap.Token == "" {
		return "", ErrNoToken
	}
	if !token.Expired(snap.Token, m.now(), m.config.Token.ExpiryBuffer) {
		return snap.Token, nil
	}

	fresh, err := m.refreshWith(ctx, snap.Token)
	if err != nil {
		if api.IsNetwork(err) {
			return "", err
		}
		m.Logout()
		return "", err
	}
	return fresh, nil
}

func (m *Manager) startSweep() {
	m.sweepStop = make(chan struct{})
	m.sweepWG.Add(1)
	go m.sweepLoop()
}

// sweepLoop opportunistically re-validates the token in the background so an
// idle-but-active tab does not wake up to an expired session.
func (m *Manager) sweepLoop() {
	defer m.sweepWG.Done()

	ticker := time.NewTicker(m.config.Sweep.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweepOnce()
		case <-m.sweepStop:
			return
		}
	}
}

func (m *Manager) sweepOnce() {
	snap := m.Snapshot()
	if !snap.LoggedIn() {
		return
	}
	if !token.Expired(snap.Token, m.now(), m.config.Token.ExpiryBuffer) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.config.API.Timeout)
	defer cancel()

	if _, err := m.refreshWith(ctx, snap.Token); err != nil {
		// The sweep never logs out on its own; interactive calls decide.
		m.logger.Debug("background token refresh failed", zap.Error(err))
		return
	}
	m.metricInc(MetricSweepRefresh)
}
