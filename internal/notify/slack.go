package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	logx "statuswatch/pkg/logx"
)

const slackPostMessageURL = "https://slack.com/api/chat.postMessage"

// SlackProvider posts messages via the Slack Web API.
//
// Slack reports API-level failures inside a 200 response, so the ok flag
// in the body must be checked, not just the HTTP status.
type SlackProvider struct {
	token   string
	channel string
	api     string // overridable in tests
	http    *http.Client
	log     logx.Logger
}

func NewSlackProvider(token, channel string, log logx.Logger) *SlackProvider {
	if strings.TrimSpace(channel) == "" {
		channel = "#monitoring"
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &SlackProvider{
		token:   token,
		channel: channel,
		api:     slackPostMessageURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type string    `json:"type"`
	Text slackText `json:"text"`
}

type slackMessage struct {
	Channel string       `json:"channel"`
	Blocks  []slackBlock `json:"blocks"`
}

type slackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (p *SlackProvider) Send(ctx context.Context, title, body string) bool {
	msg := slackMessage{
		Channel: p.channel,
		Blocks: []slackBlock{
			{Type: "header", Text: slackText{Type: "plain_text", Text: title}},
			// Quote continuation lines so multi-line bodies read as one block.
			{Type: "section", Text: slackText{Type: "mrkdwn", Text: strings.ReplaceAll(body, "\n", "\n>")}},
		},
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		p.log.Error("slack: marshal failed", logx.Err(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.api, bytes.NewReader(payload))
	if err != nil {
		p.log.Error("slack: request build failed", logx.Err(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.http.Do(req)
	if err != nil {
		p.log.Error("slack: send failed", logx.Err(err))
		return false
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		p.log.Error("slack: read response failed", logx.Err(err))
		return false
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.log.Error("slack: send rejected", logx.String("status", resp.Status))
		return false
	}

	var sr slackResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		p.log.Error("slack: decode response failed", logx.Err(err))
		return false
	}
	if !sr.OK {
		p.log.Error("slack: API error", logx.String("error", sr.Error))
		return false
	}

	p.log.Info("notification sent", logx.String("provider", "slack"), logx.String("title", title))
	return true
}
