package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule accepts either a cron spec (optionally prefixed with
// "cron:") or a Go duration string and returns it as a cron.Schedule.
// Intervals map onto cron.ConstantDelaySchedule, which rounds to whole
// seconds, so sub-second intervals are rejected.
func ParseSchedule(raw string, loc *time.Location) (cron.Schedule, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("empty schedule")
	}
	if loc == nil {
		loc = time.Local
	}

	if rest, ok := strings.CutPrefix(s, "cron:"); ok {
		return parseCron(rest, loc)
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d < time.Second {
			return nil, fmt.Errorf("schedule interval %q too short (minimum 1s)", raw)
		}
		return cron.Every(d), nil
	}

	return parseCron(s, loc)
}

func parseCron(spec string, loc *time.Location) (cron.Schedule, error) {
	sched, err := cronParser.Parse(strings.TrimSpace(spec))
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	// Pin cron evaluation to the configured timezone.
	if ss, ok := sched.(*cron.SpecSchedule); ok {
		ss.Location = loc
	}
	return sched, nil
}
