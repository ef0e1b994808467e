// Package message renders notification titles and bodies for component
// transitions.
package message

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Transition categories. These also key custom template maps in the
// component policy config.
const (
	CategoryDegradation = "degradation"
	CategoryRecovery    = "recovery"
)

const (
	emojiDegradation = "\U0001F534" // 🔴
	emojiRecovery    = "\U0001F7E2" // 🟢
)

// Default body templates. Placeholders are substituted by name.
const (
	defaultDegradationBody = `
Status Degradation Detected:
Component: {name}
Previous Status: {prev_status}
Current Status: {status}
`
	defaultNewIssueBody = `
Status Issue Detected:
Component: {name}
Current Status: {status}
`
	defaultRecoveryBody = `
Status Recovery Detected:
Component: {name}
Previous Status: {prev_status}
Current Status: {status}{duration}
`
)

// Input describes one transition to render.
type Input struct {
	Name       string
	Status     string
	PrevStatus string // empty when the component had no known previous status
	Category   string // CategoryDegradation or CategoryRecovery

	// IssueStart, when set on a recovery, yields the outage-duration suffix.
	IssueStart *time.Time
}

// Format renders the (title, body) pair for a transition.
//
// The title is always "{emoji} {name}" and is never customizable. The body
// comes from custom[category] when that template is non-empty, otherwise
// from the defaults. A custom template referencing an unknown placeholder
// is a configuration error; Format fails instead of emitting a broken
// alert.
func Format(in Input, custom map[string]string, now time.Time) (title, body string, err error) {
	params := map[string]string{
		"name":        in.Name,
		"status":      in.Status,
		"prev_status": in.PrevStatus,
		"duration":    "",
	}
	if in.PrevStatus == "" {
		params["prev_status"] = "unknown"
	}
	if in.Category == CategoryRecovery && in.IssueStart != nil {
		params["duration"] = fmt.Sprintf(" (duration: %s)", FormatDuration(*in.IssueStart, now))
	}

	emoji := emojiDegradation
	if in.Category == CategoryRecovery {
		emoji = emojiRecovery
	}
	title = emoji + " " + in.Name

	tmpl := ""
	switch in.Category {
	case CategoryRecovery:
		tmpl = defaultRecoveryBody
	default:
		if in.PrevStatus == "" {
			tmpl = defaultNewIssueBody
		} else {
			tmpl = defaultDegradationBody
		}
	}
	if c := strings.TrimSpace(custom[in.Category]); c != "" {
		tmpl = custom[in.Category]
	}

	body, err = interpolate(tmpl, params)
	if err != nil {
		return "", "", err
	}
	return title, body, nil
}

// ValidateTemplate checks a custom template against the known parameter
// set, so malformed templates are rejected at config load instead of at
// alert time.
func ValidateTemplate(tmpl string) error {
	_, err := interpolate(tmpl, map[string]string{
		"name": "", "status": "", "prev_status": "", "duration": "",
	})
	return err
}

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// interpolate substitutes {name}-style placeholders. Unknown placeholders
// are an error rather than silently dropped.
func interpolate(tmpl string, params map[string]string) (string, error) {
	var unknown []string
	out := placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := m[1 : len(m)-1]
		v, ok := params[key]
		if !ok {
			unknown = append(unknown, key)
			return m
		}
		return v
	})
	if len(unknown) > 0 {
		return "", fmt.Errorf("message template references unknown placeholder(s): %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

// FormatDuration renders now-start as the non-zero units among days,
// hours and minutes, largest first ("2d 3h"). Below one minute it
// returns "less than 1m".
func FormatDuration(start, now time.Time) string {
	d := now.Sub(start)
	if d < 0 {
		d = 0
	}

	days := int(d / (24 * time.Hour))
	rem := d % (24 * time.Hour)
	hours := int(rem / time.Hour)
	minutes := int((rem % time.Hour) / time.Minute)

	parts := make([]string, 0, 3)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		return "less than 1m"
	}
	return strings.Join(parts, " ")
}
