package logiscore

import (
	"context"
	"time"

	"github.com/google/uuid"

	internalaudit "github.com/logiscore/logiscore-go/internal/audit"
)

// Audit event types emitted by the Manager.
const (
	auditEventLogin       = "session.login"
	auditEventSignup      = "session.signup"
	auditEventCodeRequest = "session.code_request"
	auditEventCodeVerify  = "session.code_verify"
	auditEventRefresh     = "session.refresh"
	auditEventCurrentUser = "session.current_user"
	auditEventHydrate     = "session.hydrate"
	auditEventIdlePrompt  = "session.idle_prompt"
	auditEventIdleTimeout = "session.idle_timeout"
	auditEventLogout      = "session.logout"
)

// auditDispatcher wraps the internal async dispatcher with event
// construction. A nil dispatcher (audit disabled) is safe to call.
type auditDispatcher struct {
	d *internalaudit.Dispatcher
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	d := internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, sink)
	if d == nil {
		return nil
	}
	return &auditDispatcher{d: d}
}

func (a *auditDispatcher) emit(ctx context.Context, eventType, userID, email string, success bool, errMsg string) {
	if a == nil {
		return
	}
	a.d.Emit(ctx, internalaudit.Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		Email:     email,
		Success:   success,
		Error:     errMsg,
	})
}

func (a *auditDispatcher) Close() {
	if a == nil {
		return
	}
	a.d.Close()
}

func (a *auditDispatcher) Dropped() uint64 {
	if a == nil {
		return 0
	}
	return a.d.Dropped()
}
