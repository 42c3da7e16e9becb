package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// FromEnv overlays DASH_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("DASH_ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("DASH_MIN_INTERVAL_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			cfg.MinIntervalMs = int32(n)
		}
	}
	if v := os.Getenv("DASH_MAX_INTERVAL_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			cfg.MaxIntervalMs = int32(n)
		}
	}
	if v := os.Getenv("DASH_PROGRESS_EVERY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ProgressEvery = n
		}
	}
	if v := os.Getenv("DASH_MAX_MESSAGE_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxMessageBytes = n
		}
	}
	if v := os.Getenv("DASH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DASH_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	// DASH_API_KEYS is a comma-separated list of subject:bcrypt-hash pairs.
	if v := os.Getenv("DASH_API_KEYS"); v != "" {
		cfg.APIKeys = nil
		for _, p := range strings.Split(v, ",") {
			subject, hash, ok := strings.Cut(strings.TrimSpace(p), ":")
			if ok && subject != "" && hash != "" {
				cfg.APIKeys = append(cfg.APIKeys, APIKey{Subject: subject, Hash: hash})
			}
		}
	}
	if v := os.Getenv("DASH_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("DASH_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("DASH_REDIS_CHANNEL"); v != "" {
		cfg.Redis.Channel = v
	}
	if v := os.Getenv("DASH_REDIS_BACKLOG"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.Backlog = n
		}
	}
	if v := os.Getenv("DASH_HISTORY_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.History.Enabled = b
		}
	}
	if v := os.Getenv("DASH_HISTORY_RETENTION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.History.Retention = Duration(d)
		}
	}
}
