package config

import (
	"fmt"
	"strings"
	"time"

	"statuswatch/internal/message"
)

const (
	DefaultFeedURL     = "https://status.stoe.no/api/v1/status"
	DefaultFeedTimeout = 10 * time.Second
	DefaultStatePath   = "./state.json"
)

// Validate checks configuration correctness. It does not mutate the config.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if _, err := ParseDurationField("feed.timeout", cfg.Feed.Timeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("history.busy_timeout", cfg.History.BusyTimeout); err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Notifications.Provider)) {
	case "", "gotify", "slack", "telegram":
	default:
		return fmt.Errorf("notifications.provider: unsupported provider %q", cfg.Notifications.Provider)
	}
	if cfg.Notifications.RatePerSec < 0 {
		return fmt.Errorf("notifications.rate_per_sec: must be >= 0")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.History.Driver)) {
	case "", "none", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("history.driver: unknown driver %q", cfg.History.Driver)
	}

	seen := map[string]bool{}
	for i, p := range cfg.Components {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("components[%d]: id is required", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("components[%d]: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
		for k, tmpl := range p.Messages {
			switch strings.ToLower(k) {
			case "degradation", "recovery":
			default:
				return fmt.Errorf("components[%d] (%s): unknown message category %q", i, p.ID, k)
			}
			if err := message.ValidateTemplate(tmpl); err != nil {
				return fmt.Errorf("components[%d] (%s): %s template: %w", i, p.ID, k, err)
			}
		}
	}

	if cfg.Watch.Enabled && strings.TrimSpace(cfg.Watch.Schedule) == "" {
		return fmt.Errorf("watch.schedule: required when watch is enabled")
	}

	return nil
}

// Normalize fills defaults and lowercases enum-ish fields.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if strings.TrimSpace(cfg.Feed.URL) == "" {
		cfg.Feed.URL = DefaultFeedURL
	}
	if strings.TrimSpace(cfg.State.Path) == "" {
		cfg.State.Path = DefaultStatePath
	}
	if strings.TrimSpace(cfg.Notifications.Provider) == "" {
		cfg.Notifications.Provider = "gotify"
	}
	cfg.Notifications.Provider = strings.ToLower(strings.TrimSpace(cfg.Notifications.Provider))
	cfg.History.Driver = strings.ToLower(strings.TrimSpace(cfg.History.Driver))

	// Message category keys are matched case-insensitively at format time;
	// store them lowercased so lookups stay simple.
	for i, p := range cfg.Components {
		if len(p.Messages) == 0 {
			continue
		}
		m := make(map[string]string, len(p.Messages))
		for k, v := range p.Messages {
			m[strings.ToLower(k)] = v
		}
		cfg.Components[i].Messages = m
	}
}

// FeedTimeout returns the effective feed timeout. An unset or invalid
// value falls back to the default; Validate has already rejected invalid
// values on any committed config.
func (c *Config) FeedTimeout() time.Duration {
	d, err := ParseDurationField("feed.timeout", c.Feed.Timeout)
	if err != nil || d <= 0 {
		return DefaultFeedTimeout
	}
	return d
}

// ParseDurationField parses a config duration string. Empty means unset
// and yields zero; negative durations are rejected.
func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	switch {
	case err != nil:
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	case d < 0:
		return 0, fmt.Errorf("%s: negative duration %q", path, raw)
	}
	return d, nil
}
