package logiscore

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// The inactivity state machine: Active → PromptShown → {Extended → Active |
// TimedOut → LoggedOut}. Tracking exists only while both user and token are
// present; logout from any state cancels both timers and clears the prompt
// flag.

// startInactivityLocked (re)arms the idle countdown. No-op unless the
// feature is enabled and a full session exists. Caller holds m.mu.
func (m *Manager) startInactivityLocked() {
	if !m.config.Inactivity.Enabled {
		return
	}
	if !m.state.LoggedIn() {
		return
	}
	m.stopInactivityLocked()
	if m.config.Inactivity.ActivityDebounce > 0 {
		m.activityGate = rate.NewLimiter(rate.Every(m.config.Inactivity.ActivityDebounce), 1)
	}
	m.idleTimer = time.AfterFunc(m.config.Inactivity.IdleTimeout, m.idleElapsed)
}

// stopInactivityLocked cancels both countdowns and clears the prompt flag.
// Caller holds m.mu.
func (m *Manager) stopInactivityLocked() {
	if m.idleTimer != nil {
		m.idleTimer.Stop()
		m.idleTimer = nil
	}
	if m.promptTimer != nil {
		m.promptTimer.Stop()
		m.promptTimer = nil
	}
	m.state.ShowInactivityPrompt = false
	m.activityGate = nil
}

// RecordActivity reports a qualifying user interaction (pointer movement,
// key press, scroll, whatever the host surface maps to it). Debounced so
// high-frequency event sources cannot cause timer-reset storms. Activity
// only restarts the countdown while in the Active state; once the prompt is
// showing, only [Manager.ExtendSession] can dismiss it.
func (m *Manager) RecordActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.idleTimer == nil || !m.state.LoggedIn() {
		return
	}
	if m.state.ShowInactivityPrompt {
		return
	}
	if m.activityGate != nil && !m.activityGate.Allow() {
		return
	}
	m.idleTimer.Reset(m.config.Inactivity.IdleTimeout)
}

// idleElapsed fires when the idle countdown reaches zero: Active → PromptShown.
func (m *Manager) idleElapsed() {
	m.mu.Lock()
	if m.idleTimer == nil || !m.state.LoggedIn() || m.state.ShowInactivityPrompt {
		m.mu.Unlock()
		return
	}
	m.state.ShowInactivityPrompt = true
	m.promptTimer = time.AfterFunc(m.config.Inactivity.PromptTimeout, m.promptElapsed)
	userID := m.state.User.ID
	snap := m.snapshotLocked()
	ls := m.listenersLocked()
	m.mu.Unlock()

	m.metricInc(MetricIdlePromptShown)
	m.audit.emit(context.Background(), auditEventIdlePrompt, userID, "", true, "")
	m.publish(snap, ls)
}

// promptElapsed fires when the prompt countdown reaches zero unanswered:
// PromptShown → LoggedOut.
func (m *Manager) promptElapsed() {
	m.mu.Lock()
	fire := m.state.ShowInactivityPrompt && m.state.LoggedIn()
	userID := ""
	if m.state.User != nil {
		userID = m.state.User.ID
	}
	m.mu.Unlock()

	if !fire {
		return
	}
	m.metricInc(MetricIdleTimeout)
	m.audit.emit(context.Background(), auditEventIdleTimeout, userID, "", true, "")
	m.Logout()
}

// ExtendSession answers the inactivity prompt: PromptShown → Active with a
// full timer reset. Also callable from Active, where it simply restarts the
// idle countdown.
func (m *Manager) ExtendSession() {
	m.mu.Lock()
	if !m.state.LoggedIn() {
		m.mu.Unlock()
		return
	}
	wasPrompt := m.state.ShowInactivityPrompt
	m.startInactivityLocked()
	snap := m.snapshotLocked()
	ls := m.listenersLocked()
	m.mu.Unlock()

	if wasPrompt {
		m.metricInc(MetricSessionExtended)
		m.publish(snap, ls)
	}
}

// EndSession answers the inactivity prompt by logging out.
func (m *Manager) EndSession() {
	m.Logout()
}
