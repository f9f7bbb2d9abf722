package logiscore

import (
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/logiscore/logiscore-go/api"
	"github.com/logiscore/logiscore-go/storage"
)

// Builder assembles a [Manager]. Construction is allocation-only until
// Build; no I/O happens before the first Manager operation (the background
// sweep, if enabled, starts at Build but performs no work while logged out).
type Builder struct {
	config     Config
	client     Client
	httpClient *http.Client
	store      storage.Store
	sink       AuditSink
	logger     *zap.Logger
	listeners  []Listener

	built bool
}

// New creates a Builder with production defaults: the public backend URL,
// the 5-minute expiry buffer, 10-minute idle / 1-minute prompt timeouts, and
// an in-memory store.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the entire configuration. Zero-valued fields are
// filled from defaults at Build.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBaseURL points the default API client at a different backend.
func (b *Builder) WithBaseURL(url string) *Builder {
	b.config.API.BaseURL = url
	return b
}

// WithClient substitutes the backend client wholesale, bypassing the default
// [api.Client] construction.
func (b *Builder) WithClient(c Client) *Builder {
	b.client = c
	return b
}

// WithHTTPClient customizes the http.Client used by the default API client.
func (b *Builder) WithHTTPClient(h *http.Client) *Builder {
	b.httpClient = h
	return b
}

// WithStore selects the durable session mirror.
func (b *Builder) WithStore(s storage.Store) *Builder {
	b.store = s
	return b
}

// WithRedis mirrors the session into Redis using [storage.RedisStore].
func (b *Builder) WithRedis(client redis.UniversalClient, opts ...storage.RedisOption) *Builder {
	b.store = storage.NewRedisStore(client, opts...)
	return b
}

// WithAuditSink enables audit dispatching into sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithLogger attaches a structured logger. Defaults to a nop logger.
func (b *Builder) WithLogger(l *zap.Logger) *Builder {
	b.logger = l
	return b
}

// WithListener subscribes a listener before the first state transition can
// occur.
func (b *Builder) WithListener(l Listener) *Builder {
	if l != nil {
		b.listeners = append(b.listeners, l)
	}
	return b
}

// WithInactivityTimeouts overrides the idle and prompt countdowns.
func (b *Builder) WithInactivityTimeouts(idle, prompt time.Duration) *Builder {
	b.config.Inactivity.IdleTimeout = idle
	b.config.Inactivity.PromptTimeout = prompt
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and constructs the Manager. A Builder
// can build at most once.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	fillConfigDefaults(&b.config)
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	client := b.client
	if client == nil {
		opts := []api.Option{api.WithTimeout(b.config.API.Timeout)}
		if b.httpClient != nil {
			opts = append(opts, api.WithHTTPClient(b.httpClient))
		}
		client = api.NewClient(b.config.API.BaseURL, opts...)
	}

	store := b.store
	if store == nil {
		store = storage.NewMemoryStore()
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		config:    b.config,
		client:    client,
		store:     store,
		audit:     newAuditDispatcher(b.config.Audit, b.sink),
		metrics:   NewMetrics(b.config.Metrics),
		logger:    logger,
		now:       time.Now,
		listeners: make(map[uint64]Listener),
	}
	for _, l := range b.listeners {
		m.Subscribe(l)
	}

	if b.config.Sweep.Enabled {
		m.startSweep()
	}

	return m, nil
}
