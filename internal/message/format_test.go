package message

import (
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		since time.Duration
		want  string
	}{
		{name: "below a minute", since: 30 * time.Second, want: "less than 1m"},
		{name: "minutes only", since: 45 * time.Minute, want: "45m"},
		{name: "hours only", since: 3 * time.Hour, want: "3h"},
		{name: "days and hours", since: 51 * time.Hour, want: "2d 3h"},
		{name: "days only", since: 48 * time.Hour, want: "2d"},
		{name: "days and minutes, zero hours", since: 48*time.Hour + 5*time.Minute, want: "2d 5m"},
		{name: "all units", since: 49*time.Hour + 12*time.Minute, want: "2d 1h 12m"},
		{name: "seconds are floored away", since: 2*time.Minute + 59*time.Second, want: "2m"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDuration(now.Add(-tt.since), now)
			if got != tt.want {
				t.Fatalf("FormatDuration(-%v) = %q, want %q", tt.since, got, tt.want)
			}
		})
	}
}

func TestFormatDefaults(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("new degradation", func(t *testing.T) {
		title, body, err := Format(Input{
			Name: "BankID", Status: "major_outage", Category: CategoryDegradation,
		}, nil, now)
		if err != nil {
			t.Fatalf("Format: %v", err)
		}
		if title != "\U0001F534 BankID" {
			t.Fatalf("title = %q", title)
		}
		if !strings.Contains(body, "Status Issue Detected") {
			t.Fatalf("body = %q", body)
		}
		if strings.Contains(body, "Previous Status") {
			t.Fatalf("new degradation must not show previous status: %q", body)
		}
	})

	t.Run("ongoing degradation", func(t *testing.T) {
		_, body, err := Format(Input{
			Name: "BankID", Status: "major_outage", PrevStatus: "operational",
			Category: CategoryDegradation,
		}, nil, now)
		if err != nil {
			t.Fatalf("Format: %v", err)
		}
		if !strings.Contains(body, "Previous Status: operational") || !strings.Contains(body, "Current Status: major_outage") {
			t.Fatalf("body = %q", body)
		}
	})

	t.Run("recovery with duration", func(t *testing.T) {
		start := now.Add(-90 * time.Minute)
		title, body, err := Format(Input{
			Name: "BankID", Status: "operational", PrevStatus: "major_outage",
			Category: CategoryRecovery, IssueStart: &start,
		}, nil, now)
		if err != nil {
			t.Fatalf("Format: %v", err)
		}
		if title != "\U0001F7E2 BankID" {
			t.Fatalf("title = %q", title)
		}
		if !strings.Contains(body, "Current Status: operational (duration: 1h 30m)") {
			t.Fatalf("body = %q", body)
		}
	})

	t.Run("recovery without issue start", func(t *testing.T) {
		_, body, err := Format(Input{
			Name: "BankID", Status: "operational", PrevStatus: "major_outage",
			Category: CategoryRecovery,
		}, nil, now)
		if err != nil {
			t.Fatalf("Format: %v", err)
		}
		if strings.Contains(body, "duration") {
			t.Fatalf("no issue start means no duration suffix: %q", body)
		}
	})
}

func TestFormatCustomTemplate(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	custom := map[string]string{CategoryDegradation: "{name} is down: {status}"}
	title, body, err := Format(Input{
		Name: "BankID", Status: "major_outage", PrevStatus: "operational",
		Category: CategoryDegradation,
	}, custom, now)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if body != "BankID is down: major_outage" {
		t.Fatalf("body = %q", body)
	}
	// Title stays on the fixed default even with a custom body.
	if title != "\U0001F534 BankID" {
		t.Fatalf("title = %q", title)
	}
}

func TestFormatUnknownPlaceholder(t *testing.T) {
	t.Parallel()
	now := time.Now()

	custom := map[string]string{CategoryDegradation: "{name} broke at {severity}"}
	_, _, err := Format(Input{Name: "X", Status: "down", Category: CategoryDegradation}, custom, now)
	if err == nil {
		t.Fatal("expected error for unknown placeholder")
	}
	if !strings.Contains(err.Error(), "severity") {
		t.Fatalf("error should name the placeholder: %v", err)
	}
}

func TestValidateTemplate(t *testing.T) {
	t.Parallel()

	if err := ValidateTemplate("{name} {status} {prev_status}{duration}"); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}
	if err := ValidateTemplate("{nope}"); err == nil {
		t.Fatal("expected error for unknown placeholder")
	}
}
