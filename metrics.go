package logiscore

import (
	internalmetrics "github.com/logiscore/logiscore-go/internal/metrics"
)

// MetricID identifies a specific counter in the in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricLoginSuccess counts successful password and code sign-ins.
	MetricLoginSuccess = internalmetrics.MetricLoginSuccess
	// MetricLoginFailure counts rejected sign-in attempts.
	MetricLoginFailure = internalmetrics.MetricLoginFailure
	// MetricSignupSuccess counts successful registrations.
	MetricSignupSuccess = internalmetrics.MetricSignupSuccess
	// MetricSignupFailure counts rejected registrations.
	MetricSignupFailure = internalmetrics.MetricSignupFailure
	// MetricCodeRequested counts one-time code requests.
	MetricCodeRequested = internalmetrics.MetricCodeRequested
	// MetricCodeVerifyFailure counts rejected one-time code exchanges.
	MetricCodeVerifyFailure = internalmetrics.MetricCodeVerifyFailure
	// MetricRefreshSuccess counts successful token refreshes.
	MetricRefreshSuccess = internalmetrics.MetricRefreshSuccess
	// MetricRefreshFailure counts failed token refreshes.
	MetricRefreshFailure = internalmetrics.MetricRefreshFailure
	// MetricCurrentUserSuccess counts successful identity fetches.
	MetricCurrentUserSuccess = internalmetrics.MetricCurrentUserSuccess
	// MetricCurrentUserFailure counts identity fetches that cleared the session.
	MetricCurrentUserFailure = internalmetrics.MetricCurrentUserFailure
	// MetricNetworkPreserved counts sessions preserved across transport failures.
	MetricNetworkPreserved = internalmetrics.MetricNetworkPreserved
	// MetricHydrateSuccess counts sessions recovered from durable storage.
	MetricHydrateSuccess = internalmetrics.MetricHydrateSuccess
	// MetricHydrateFailure counts storage sessions that could not be recovered.
	MetricHydrateFailure = internalmetrics.MetricHydrateFailure
	// MetricIdlePromptShown counts Active → PromptShown transitions.
	MetricIdlePromptShown = internalmetrics.MetricIdlePromptShown
	// MetricIdleTimeout counts sessions ended by an unanswered prompt.
	MetricIdleTimeout = internalmetrics.MetricIdleTimeout
	// MetricSessionExtended counts PromptShown → Active transitions.
	MetricSessionExtended = internalmetrics.MetricSessionExtended
	// MetricSweepRefresh counts refreshes triggered by the background sweep.
	MetricSweepRefresh = internalmetrics.MetricSweepRefresh
	// MetricLogout counts logouts, explicit or forced.
	MetricLogout = internalmetrics.MetricLogout
)

// NewMetrics creates a [Metrics] instance. When cfg.Enabled is false every
// operation is a no-op.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{Enabled: cfg.Enabled})
}

// MetricsSnapshot returns a deep copy of all counters. Safe on a nil or
// metrics-disabled Manager.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return m.metrics.Snapshot()
}

// AuditDropped reports how many audit events were dropped under dispatcher
// backpressure.
func (m *Manager) AuditDropped() uint64 {
	if m == nil || m.audit == nil {
		return 0
	}
	return m.audit.Dropped()
}

func (m *Manager) metricInc(id MetricID) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Inc(id)
}
