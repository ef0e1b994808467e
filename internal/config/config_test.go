package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

const sampleYAML = `
feed:
  url: https://status.example.test/api/v1/status
  timeout: "5s"
state:
  path: ./state.json
logging:
  level: debug
  console: true
notifications:
  provider: gotify
  gotify:
    url: https://push.example.test
components:
  - id: bankid
    notify_on: [degradation]
    messages:
      degradation: "{name} is down: {status}"
  - id: id-check
    enabled: false
`

func TestManagerLoadYAML(t *testing.T) {
	m := NewManager(writeConfig(t, "config.yaml", sampleYAML))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Feed.URL != "https://status.example.test/api/v1/status" {
		t.Fatalf("feed url = %q", cfg.Feed.URL)
	}
	if got := cfg.FeedTimeout().String(); got != "5s" {
		t.Fatalf("feed timeout = %s", got)
	}
	if cfg.Notifications.Provider != "gotify" {
		t.Fatalf("provider = %q", cfg.Notifications.Provider)
	}

	p := cfg.PolicyFor("bankid")
	if !p.Enabled || !p.NotifyDegradation || p.NotifyRecovery {
		t.Fatalf("bankid policy = %+v", p)
	}
	if p.Messages["degradation"] != "{name} is down: {status}" {
		t.Fatalf("bankid messages = %+v", p.Messages)
	}

	if cfg.PolicyFor("id-check").Enabled {
		t.Fatal("id-check must be disabled")
	}
}

func TestDefaultsApplied(t *testing.T) {
	m := NewManager(writeConfig(t, "config.yaml", "logging:\n  level: info\n"))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Feed.URL != DefaultFeedURL {
		t.Fatalf("feed url default = %q", cfg.Feed.URL)
	}
	if cfg.State.Path != DefaultStatePath {
		t.Fatalf("state path default = %q", cfg.State.Path)
	}
	if cfg.Notifications.Provider != "gotify" {
		t.Fatalf("provider default = %q", cfg.Notifications.Provider)
	}
}

func TestPolicyForAbsentComponent(t *testing.T) {
	cfg := &Config{}
	p := cfg.PolicyFor("unknown")
	if !p.Enabled || !p.NotifyDegradation || !p.NotifyRecovery || p.Messages != nil {
		t.Fatalf("default policy = %+v", p)
	}
}

func TestUnknownFieldRejected(t *testing.T) {
	m := NewManager(writeConfig(t, "config.yaml", "feed:\n  url: x\n  retries: 3\n"))
	if _, err := m.Load(); err == nil {
		t.Fatal("expected error for unknown config field")
	}
}

func TestMalformedTemplateRejected(t *testing.T) {
	body := `
components:
  - id: bankid
    messages:
      degradation: "{name} at {severity}"
`
	m := NewManager(writeConfig(t, "config.yaml", body))
	_, err := m.Load()
	if err == nil {
		t.Fatal("expected error for template with unknown placeholder")
	}
	if !strings.Contains(err.Error(), "severity") {
		t.Fatalf("error should name the placeholder: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "bad provider", cfg: Config{Notifications: NotificationsConfig{Provider: "smoke-signals"}}},
		{name: "bad duration", cfg: Config{Feed: FeedConfig{Timeout: "fast"}}},
		{name: "missing component id", cfg: Config{Components: []ComponentPolicy{{}}}},
		{name: "duplicate component id", cfg: Config{Components: []ComponentPolicy{{ID: "a"}, {ID: "a"}}}},
		{name: "unknown message category", cfg: Config{Components: []ComponentPolicy{{ID: "a", Messages: map[string]string{"outage": "x"}}}}},
		{name: "watch without schedule", cfg: Config{Watch: WatchConfig{Enabled: true}}},
		{name: "bad history driver", cfg: Config{History: HistoryConfig{Driver: "postgres"}}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(&tt.cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestResolveNotifyOn(t *testing.T) {
	t.Parallel()

	p := ComponentPolicy{ID: "x", NotifyOn: []string{"Recovery"}}.Resolve()
	if p.NotifyDegradation || !p.NotifyRecovery {
		t.Fatalf("resolved = %+v", p)
	}

	// An explicit empty list suppresses everything; nil keeps defaults.
	p = ComponentPolicy{ID: "x", NotifyOn: []string{}}.Resolve()
	if p.NotifyDegradation || p.NotifyRecovery {
		t.Fatalf("empty notify_on must suppress both, got %+v", p)
	}
	p = ComponentPolicy{ID: "x"}.Resolve()
	if !p.NotifyDegradation || !p.NotifyRecovery {
		t.Fatalf("nil notify_on must default to both, got %+v", p)
	}
}

func TestJSONConfigAccepted(t *testing.T) {
	m := NewManager(writeConfig(t, "config.json", `{"feed":{"url":"https://x.test"}}`))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Feed.URL != "https://x.test" {
		t.Fatalf("feed url = %q", cfg.Feed.URL)
	}
}
