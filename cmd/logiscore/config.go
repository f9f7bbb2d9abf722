package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	logiscore "github.com/logiscore/logiscore-go"
	"github.com/logiscore/logiscore-go/storage"
)

// duration decodes YAML strings like "30s" into a time.Duration.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = duration(parsed)
	return nil
}

// fileConfig is the YAML shape of the optional config file. Every field is
// optional; flags override the file.
type fileConfig struct {
	BaseURL     string   `yaml:"base_url"`
	Timeout     duration `yaml:"timeout"`
	SessionFile string   `yaml:"session_file"`
	Redis       struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	AuditLog string `yaml:"audit_log"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		path = defaultConfigPath()
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".logiscore", "config.yaml")
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "logiscore-session.json"
	}
	return filepath.Join(home, ".logiscore", "session.json")
}

// appContext carries flag values and the per-invocation Manager. Commands are
// one-shot, so the background sweep and inactivity tracking stay off; the
// durable mirror is what carries the session between runs.
type appContext struct {
	configPath  string
	baseURL     string
	sessionPath string
	verbose     bool

	manager  *logiscore.Manager
	redis    *redis.Client
	auditOut *os.File
	logger   *zap.Logger
}

func (a *appContext) setup() error {
	fc, err := loadFileConfig(a.configPath)
	if err != nil {
		return err
	}

	cfg := logiscore.Config{}
	cfg.API.BaseURL = fc.BaseURL
	if a.baseURL != "" {
		cfg.API.BaseURL = a.baseURL
	}
	cfg.API.Timeout = time.Duration(fc.Timeout)
	cfg.Sweep.Enabled = false
	cfg.Inactivity.Enabled = false

	store, err := a.buildStore(fc)
	if err != nil {
		return err
	}

	a.logger = zap.NewNop()
	if a.verbose {
		a.logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
	}

	b := logiscore.New().
		WithConfig(cfg).
		WithStore(store).
		WithLogger(a.logger)

	if fc.AuditLog != "" {
		f, err := os.OpenFile(fc.AuditLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open audit log: %w", err)
		}
		a.auditOut = f
		b = b.WithAuditSink(logiscore.NewJSONWriterSink(f))
	}

	a.manager, err = b.Build()
	if err != nil {
		return err
	}
	return nil
}

func (a *appContext) buildStore(fc fileConfig) (storage.Store, error) {
	if fc.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     fc.Redis.Addr,
			Password: fc.Redis.Password,
			DB:       fc.Redis.DB,
		})
		var opts []storage.RedisOption
		if fc.Redis.Prefix != "" {
			opts = append(opts, storage.WithRedisPrefix(fc.Redis.Prefix))
		}
		return storage.NewRedisStore(a.redis, opts...), nil
	}

	path := a.sessionPath
	if path == "" {
		path = fc.SessionFile
	}
	if path == "" {
		path = defaultSessionPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return storage.NewFileStore(path), nil
}

func (a *appContext) teardown() {
	if a.manager != nil {
		a.manager.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.auditOut != nil {
		_ = a.auditOut.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
