package config

import (
	"fmt"
	"os"
	"time"
)

const (
	DefaultSessionTTL           = 30 * time.Minute
	DefaultSessionSweepInterval = time.Minute
)

type Session struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

func loadDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive (got %s)", key, raw)
	}
	return d, nil
}

func NewSession() (*Session, error) {
	ttl, err := loadDuration("SESSION_TTL", DefaultSessionTTL)
	if err != nil {
		return nil, err
	}
	interval, err := loadDuration("SESSION_SWEEP_INTERVAL", DefaultSessionSweepInterval)
	if err != nil {
		return nil, err
	}
	return &Session{TTL: ttl, SweepInterval: interval}, nil
}
