package metrics

import "sync/atomic"

// MetricID identifies a single counter.
type MetricID uint16

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricSignupSuccess
	MetricSignupFailure
	MetricCodeRequested
	MetricCodeVerifyFailure
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricCurrentUserSuccess
	MetricCurrentUserFailure
	MetricNetworkPreserved
	MetricHydrateSuccess
	MetricHydrateFailure
	MetricIdlePromptShown
	MetricIdleTimeout
	MetricSessionExtended
	MetricSweepRefresh
	MetricLogout

	// MetricIDCount is the number of defined counters.
	MetricIDCount
)

// Config controls whether metrics collection is active.
type Config struct {
	Enabled bool
}

// Metrics holds one atomic counter per MetricID. When disabled, every
// operation is a no-op so the hot path costs a single branch.
type Metrics struct {
	enabled  bool
	counters [MetricIDCount]atomic.Uint64
}

// New creates a Metrics instance. A nil-safe disabled instance is returned
// when cfg.Enabled is false.
func New(cfg Config) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Get reads a single counter.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || id >= MetricIDCount {
		return 0
	}
	return m.counters[id].Load()
}

// Snapshot is a point-in-time deep copy of all counters.
type Snapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies every counter. Disabled instances return an empty map.
func (m *Metrics) Snapshot() Snapshot {
	out := Snapshot{Counters: make(map[MetricID]uint64, MetricIDCount)}
	if m == nil || !m.enabled {
		return out
	}
	for id := MetricID(0); id < MetricIDCount; id++ {
		out.Counters[id] = m.counters[id].Load()
	}
	return out
}
