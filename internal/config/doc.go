// Package config provides loading and environment overlay for dashboard
// configuration. It exposes a Default() baseline, JSON/YAML file loading,
// and a DASH_* environment overlay.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/dashboard.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
