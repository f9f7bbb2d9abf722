package logiscore

import (
	"errors"
	"time"

	"github.com/logiscore/logiscore-go/api"
	"github.com/logiscore/logiscore-go/token"
)

// Config groups every tunable of the session manager. Zero values are filled
// in from defaultConfig by [Builder.Build]; an explicitly hostile value (a
// negative duration, a prompt longer than the idle window) fails validation
// instead of being silently corrected.
type Config struct {
	API        APIConfig
	Token      TokenConfig
	Inactivity InactivityConfig
	Sweep      SweepConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

// APIConfig selects the backend and per-request behavior.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// TokenConfig controls the local expiration check.
type TokenConfig struct {
	// ExpiryBuffer is subtracted from the token's exp claim when judging
	// validity, leaving room for a refresh to complete before the backend
	// itself would start rejecting the token.
	ExpiryBuffer time.Duration
}

// InactivityConfig controls the idle-timeout state machine.
type InactivityConfig struct {
	Enabled bool
	// IdleTimeout is how long the session may go without a qualifying
	// activity report before the prompt is shown.
	IdleTimeout time.Duration
	// PromptTimeout is how long the prompt waits for ExtendSession before
	// the session is forcibly logged out.
	PromptTimeout time.Duration
	// ActivityDebounce gates how often activity reports may reset the idle
	// timer, absorbing reset storms from high-frequency event sources.
	ActivityDebounce time.Duration
}

// SweepConfig controls the periodic background token-validity check.
type SweepConfig struct {
	Enabled  bool
	Interval time.Duration
}

// AuditConfig controls async audit dispatching.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: api.DefaultBaseURL,
			Timeout: 30 * time.Second,
		},
		Token: TokenConfig{
			ExpiryBuffer: token.DefaultExpiryBuffer,
		},
		Inactivity: InactivityConfig{
			Enabled:          true,
			IdleTimeout:      10 * time.Minute,
			PromptTimeout:    time.Minute,
			ActivityDebounce: time.Second,
		},
		Sweep: SweepConfig{
			Enabled:  true,
			Interval: 5 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func fillConfigDefaults(cfg *Config) {
	def := defaultConfig()
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = def.API.BaseURL
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = def.API.Timeout
	}
	if cfg.Token.ExpiryBuffer == 0 {
		cfg.Token.ExpiryBuffer = def.Token.ExpiryBuffer
	}
	if cfg.Inactivity.IdleTimeout == 0 {
		cfg.Inactivity.IdleTimeout = def.Inactivity.IdleTimeout
	}
	if cfg.Inactivity.PromptTimeout == 0 {
		cfg.Inactivity.PromptTimeout = def.Inactivity.PromptTimeout
	}
	if cfg.Inactivity.ActivityDebounce == 0 {
		cfg.Inactivity.ActivityDebounce = def.Inactivity.ActivityDebounce
	}
	if cfg.Sweep.Interval == 0 {
		cfg.Sweep.Interval = def.Sweep.Interval
	}
	if cfg.Audit.BufferSize == 0 {
		cfg.Audit.BufferSize = def.Audit.BufferSize
	}
}

func validateConfig(cfg Config) error {
	if cfg.API.Timeout < 0 {
		return errors.New("config: API timeout must not be negative")
	}
	if cfg.Token.ExpiryBuffer < 0 {
		return errors.New("config: token expiry buffer must not be negative")
	}
	if cfg.Inactivity.Enabled {
		if cfg.Inactivity.IdleTimeout <= 0 || cfg.Inactivity.PromptTimeout <= 0 {
			return errors.New("config: inactivity timeouts must be positive")
		}
		if cfg.Inactivity.ActivityDebounce < 0 {
			return errors.New("config: activity debounce must not be negative")
		}
		if cfg.Inactivity.ActivityDebounce >= cfg.Inactivity.IdleTimeout {
			return errors.New("config: activity debounce must be shorter than the idle timeout")
		}
	}
	if cfg.Sweep.Enabled && cfg.Sweep.Interval <= 0 {
		return errors.New("config: sweep interval must be positive")
	}
	if cfg.Audit.Enabled && cfg.Audit.BufferSize < 0 {
		return errors.New("config: audit buffer size must not be negative")
	}
	return nil
}
