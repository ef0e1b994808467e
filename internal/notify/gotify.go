package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	logx "statuswatch/pkg/logx"
)

const gotifyPriority = 5

// GotifyProvider posts messages to a Gotify server.
type GotifyProvider struct {
	url   string // base URL, no trailing slash
	token string
	http  *http.Client
	log   logx.Logger
}

func NewGotifyProvider(url, token string, log logx.Logger) *GotifyProvider {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &GotifyProvider{
		url:   strings.TrimRight(url, "/"),
		token: token,
		http:  &http.Client{Timeout: 10 * time.Second},
		log:   log,
	}
}

type gotifyMessage struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority int    `json:"priority"`
}

func (p *GotifyProvider) Send(ctx context.Context, title, body string) bool {
	payload, err := json.Marshal(gotifyMessage{Title: title, Message: body, Priority: gotifyPriority})
	if err != nil {
		p.log.Error("gotify: marshal failed", logx.Err(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+"/message", bytes.NewReader(payload))
	if err != nil {
		p.log.Error("gotify: request build failed", logx.Err(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Gotify-Key", p.token)

	resp, err := p.http.Do(req)
	if err != nil {
		p.log.Error("gotify: send failed", logx.Err(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.log.Error("gotify: send rejected", logx.String("status", resp.Status))
		return false
	}

	p.log.Info("notification sent", logx.String("provider", "gotify"), logx.String("title", title))
	return true
}
