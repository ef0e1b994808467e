package config

import "strings"

type Config struct {
	Feed    FeedConfig    `json:"feed"`
	State   StateConfig   `json:"state"`
	Logging LoggingConfig `json:"logging"`

	// Notifications selects and configures the delivery transport.
	Notifications NotificationsConfig `json:"notifications"`

	// Watch controls repeated checks. When disabled (the default) the
	// process performs a single check and exits.
	Watch WatchConfig `json:"watch,omitempty"`

	// History optionally records every detected transition.
	History HistoryConfig `json:"history,omitempty"`

	// Components holds per-component notification policy.
	// Components absent from this list get the default policy.
	Components []ComponentPolicy `json:"components,omitempty"`
}

type FeedConfig struct {
	URL string `json:"url"`
	// Timeout is a Go duration string (e.g. "10s"). Default: "10s".
	Timeout string `json:"timeout,omitempty"`
}

type StateConfig struct {
	Path string `json:"path"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// NotificationsConfig selects the provider. Secrets (tokens) are NOT part
// of the config file; they come from the environment (see notify.Secrets).
type NotificationsConfig struct {
	Provider string `json:"provider"`
	// RatePerSec caps outgoing notifications. Default: 3.
	RatePerSec int `json:"rate_per_sec,omitempty"`

	Gotify   GotifyConfig   `json:"gotify,omitempty"`
	Slack    SlackConfig    `json:"slack,omitempty"`
	Telegram TelegramConfig `json:"telegram,omitempty"`
}

type GotifyConfig struct {
	URL string `json:"url"`
}

type SlackConfig struct {
	Channel string `json:"channel"`
}

type TelegramConfig struct {
	ChatID int64 `json:"chat_id"`
}

// WatchConfig controls repeated checks.
//
// Schedule accepts either a 5-field cron spec (optionally prefixed with
// "cron:") or a Go duration string (e.g. "5m").
type WatchConfig struct {
	Enabled  bool   `json:"enabled"`
	Schedule string `json:"schedule,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// HistoryConfig controls the optional transition history store.
//
// Driver values:
//   - "" or "none": disabled
//   - "sqlite": SQLite database file
type HistoryConfig struct {
	Driver      string `json:"driver,omitempty"`
	Path        string `json:"path,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string
}

// ComponentPolicy is the raw per-component policy as written in the
// config file. Enabled is a pointer so we can distinguish "omitted"
// (default true) from an explicit false.
type ComponentPolicy struct {
	ID       string            `json:"id"`
	Enabled  *bool             `json:"enabled,omitempty"`
	NotifyOn []string          `json:"notify_on,omitempty"`
	Messages map[string]string `json:"messages,omitempty"`
}

// Policy is the resolved per-component policy consumed by the engine.
type Policy struct {
	Enabled           bool
	NotifyDegradation bool
	NotifyRecovery    bool
	Messages          map[string]string
}

// DefaultPolicy is applied to components absent from the config:
// enabled, both notification categories, no custom templates.
func DefaultPolicy() Policy {
	return Policy{Enabled: true, NotifyDegradation: true, NotifyRecovery: true}
}

// Resolve turns the raw policy into its effective form.
func (p ComponentPolicy) Resolve() Policy {
	out := DefaultPolicy()
	if p.Enabled != nil {
		out.Enabled = *p.Enabled
	}
	if p.NotifyOn != nil {
		out.NotifyDegradation = false
		out.NotifyRecovery = false
		for _, v := range p.NotifyOn {
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "degradation":
				out.NotifyDegradation = true
			case "recovery":
				out.NotifyRecovery = true
			}
		}
	}
	out.Messages = p.Messages
	return out
}

// PolicyFor returns the resolved policy for a component id.
func (c *Config) PolicyFor(id string) Policy {
	for _, p := range c.Components {
		if p.ID == id {
			return p.Resolve()
		}
	}
	return DefaultPolicy()
}
