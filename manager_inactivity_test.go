package logiscore

import (
	"context"
	"testing"
	"time"
)

func shortIdleConfig(idle, prompt time.Duration) func(*Config) {
	return func(cfg *Config) {
		cfg.Inactivity.IdleTimeout = idle
		cfg.Inactivity.PromptTimeout = prompt
		cfg.Inactivity.ActivityDebounce = time.Millisecond
	}
}

func TestIdleFlowPromptThenTimeout(t *testing.T) {
	f := newFakeBackend(t)
	m, store := newTestManager(t, f, shortIdleConfig(40*time.Millisecond, 40*time.Millisecond))

	seedSession(m, testUser(), validToken(t))

	waitFor(t, time.Second, func() bool {
		return m.Snapshot().ShowInactivityPrompt
	}, "idle countdown never showed the prompt")

	// Unanswered prompt ends the session.
	waitFor(t, time.Second, func() bool {
		return !m.Snapshot().LoggedIn()
	}, "unanswered prompt never logged out")

	if store.Len() != 0 {
		t.Fatal("inactivity logout left durable storage")
	}
	if m.Snapshot().ShowInactivityPrompt {
		t.Fatal("logout left the prompt flag set")
	}
}

func TestExtendSessionDismissesPromptAndRearms(t *testing.T) {
	f := newFakeBackend(t)
	m, _ := newTestManager(t, f, shortIdleConfig(40*time.Millisecond, 5*time.Second))

	seedSession(m, testUser(), validToken(t))

	waitFor(t, time.Second, func() bool {
		return m.Snapshot().ShowInactivityPrompt
	}, "idle countdown never showed the prompt")

	m.ExtendSession()

	snap := m.Snapshot()
	if snap.ShowInactivityPrompt {
		t.Fatal("extend did not dismiss the prompt")
	}
	if !snap.LoggedIn() {
		t.Fatal("extend ended the session")
	}

	// The countdown restarted from zero, so the prompt comes back.
	waitFor(t, time.Second, func() bool {
		return m.Snapshot().ShowInactivityPrompt
	}, "extended session never re-prompted")
}

func TestRecordActivityDefersPrompt(t *testing.T) {
	f := newFakeBackend(t)
	m, _ := newTestManager(t, f, shortIdleConfig(120*time.Millisecond, 5*time.Second))

	seedSession(m, testUser(), validToken(t))

	// Keep resetting well inside the idle window.
	deadline := time.Now().Add(400 * time.Millisecond)
	for time.Now().Before(deadline) {
		if m.Snapshot().ShowInactivityPrompt {
			t.Fatal("prompt appeared despite continuous activity")
		}
		time.Sleep(30 * time.Millisecond)
		m.RecordActivity()
	}

	// Once activity stops, the prompt appears.
	waitFor(t, time.Second, func() bool {
		return m.Snapshot().ShowInactivityPrompt
	}, "prompt never appeared after activity stopped")
}

func TestRecordActivityIgnoredWhilePromptShowing(t *testing.T) {
	f := newFakeBackend(t)
	m, _ := newTestManager(t, f, shortIdleConfig(40*time.Millisecond, 5*time.Second))

	seedSession(m, testUser(), validToken(t))

	waitFor(t, time.Second, func() bool {
		return m.Snapshot().ShowInactivityPrompt
	}, "idle countdown never showed the prompt")

	// Incidental events must not dismiss a question the user has not
	// answered.
	m.RecordActivity()
	if !m.Snapshot().ShowInactivityPrompt {
		t.Fatal("activity dismissed the prompt")
	}
}

func TestEndSessionFromPrompt(t *testing.T) {
	f := newFakeBackend(t)
	m, store := newTestManager(t, f, shortIdleConfig(40*time.Millisecond, 5*time.Second))

	seedSession(m, testUser(), validToken(t))

	waitFor(t, time.Second, func() bool {
		return m.Snapshot().ShowInactivityPrompt
	}, "idle countdown never showed the prompt")

	m.EndSession()

	if m.Snapshot().LoggedIn() {
		t.Fatal("EndSession left a session")
	}
	if store.Len() != 0 {
		t.Fatal("EndSession left durable storage")
	}
}

func TestNoTrackingWithoutSession(t *testing.T) {
	f := newFakeBackend(t)
	m, _ := newTestManager(t, f, shortIdleConfig(20*time.Millisecond, 20*time.Millisecond))

	// No session: RecordActivity is a no-op and no timers exist.
	m.RecordActivity()
	m.mu.Lock()
	idle := m.idleTimer
	m.mu.Unlock()
	if idle != nil {
		t.Fatal("idle timer armed without a session")
	}

	time.Sleep(60 * time.Millisecond)
	if m.Snapshot().ShowInactivityPrompt {
		t.Fatal("prompt shown without a session")
	}
}

func TestInactivityDisabledNeverPrompts(t *testing.T) {
	f := newFakeBackend(t)
	m, _ := newTestManager(t, f, func(cfg *Config) {
		cfg.Inactivity.Enabled = false
		cfg.Inactivity.IdleTimeout = 20 * time.Millisecond
		cfg.Inactivity.PromptTimeout = 20 * time.Millisecond
		cfg.Inactivity.ActivityDebounce = time.Millisecond
	})

	seedSession(m, testUser(), validToken(t))

	time.Sleep(80 * time.Millisecond)
	snap := m.Snapshot()
	if snap.ShowInactivityPrompt || !snap.LoggedIn() {
		t.Fatalf("disabled tracking still acted: %+v", snap)
	}
}

func TestRefreshRestartsIdleCountdown(t *testing.T) {
	f := newFakeBackend(t)
	m, _ := newTestManager(t, f, shortIdleConfig(400*time.Millisecond, 5*time.Second))

	seedSession(m, testUser(), validToken(t))

	// A successful refresh counts as liveness and rearms the countdown.
	time.Sleep(150 * time.Millisecond)
	if _, err := m.RefreshToken(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	time.Sleep(300 * time.Millisecond)
	if m.Snapshot().ShowInactivityPrompt {
		t.Fatal("refresh did not restart the idle countdown")
	}
}
