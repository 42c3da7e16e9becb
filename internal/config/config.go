package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ChameeraD/RealTimeDashboard/internal/telemetry"
	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// Environment is "production" (default) or "development". Development
	// lets anonymous callers subscribe.
	Environment string `json:"environment" yaml:"environment"`
	// MinIntervalMs and MaxIntervalMs bound Subscription.interval_ms, inclusive.
	MinIntervalMs int32 `json:"minIntervalMs" yaml:"minIntervalMs"`
	MaxIntervalMs int32 `json:"maxIntervalMs" yaml:"maxIntervalMs"`
	// ProgressEvery sets how many pushes pass between session progress records.
	ProgressEvery int `json:"progressEvery" yaml:"progressEvery"`
	// MaxMessageBytes caps gRPC request and response sizes.
	MaxMessageBytes int           `json:"maxMessageBytes" yaml:"maxMessageBytes"`
	Log             logpkg.Config `json:"log" yaml:"log"`
	APIKeys         []APIKey      `json:"apiKeys" yaml:"apiKeys"`
	Redis           RedisConfig   `json:"redis" yaml:"redis"`
	History         HistoryConfig `json:"history" yaml:"history"`
}

// APIKey maps a bcrypt hash of a bearer key to the subject it authenticates.
type APIKey struct {
	Subject string `json:"subject" yaml:"subject"`
	Hash    string `json:"hash" yaml:"hash"`
}

// RedisConfig enables the sample mirror when Addr is set.
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db" yaml:"db"`
	// Channel prefixes the per-source pub/sub channel and backlog key.
	Channel string `json:"channel" yaml:"channel"`
	// Backlog is the number of recent samples kept per source. 0 disables it.
	Backlog int `json:"backlog" yaml:"backlog"`
}

// HistoryConfig controls the session ledger.
type HistoryConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Retention drops ledger entries older than this. 0 keeps everything.
	Retention Duration `json:"retention" yaml:"retention"`
}

// Default returns built-in defaults.
func Default() Config {
	limits := telemetry.DefaultLimits()
	return Config{
		Environment:     "production",
		MinIntervalMs:   limits.MinIntervalMs,
		MaxIntervalMs:   limits.MaxIntervalMs,
		ProgressEvery:   telemetry.DefaultProgressEvery,
		MaxMessageBytes: 4 << 20,
		Log:             logpkg.Config{Level: "info", Format: "text"},
		Redis:           RedisConfig{Channel: "dashboard:samples", Backlog: 100},
		History:         HistoryConfig{Enabled: true, Retention: Duration(7 * 24 * time.Hour)},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	if _, err := telemetry.ParseEnvironment(c.Environment); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.MinIntervalMs <= 0 {
		return errors.New("config: minIntervalMs must be positive")
	}
	if c.MinIntervalMs > c.MaxIntervalMs {
		return fmt.Errorf("config: minIntervalMs %d exceeds maxIntervalMs %d", c.MinIntervalMs, c.MaxIntervalMs)
	}
	for i, k := range c.APIKeys {
		if k.Subject == "" || k.Hash == "" {
			return fmt.Errorf("config: apiKeys[%d] needs subject and hash", i)
		}
	}
	if c.Redis.Backlog < 0 {
		return errors.New("config: redis.backlog must not be negative")
	}
	return nil
}

// EnvironmentMode parses Environment, defaulting to production.
func (c Config) EnvironmentMode() telemetry.Environment {
	env, _ := telemetry.ParseEnvironment(c.Environment)
	return env
}

// Limits returns the interval bounds as telemetry limits.
func (c Config) Limits() telemetry.Limits {
	return telemetry.Limits{MinIntervalMs: c.MinIntervalMs, MaxIntervalMs: c.MaxIntervalMs}
}

// Duration is a time.Duration that reads "90s"-style strings from JSON
// and YAML.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) { return time.Duration(d).String(), nil }

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	v, err := time.ParseDuration(n.Value)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
