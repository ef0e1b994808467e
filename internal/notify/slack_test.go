package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	logx "statuswatch/pkg/logx"
)

func newSlackTestServer(t *testing.T, ok bool, apiErr string, capture *slackMessage) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer xoxb-test" {
			t.Errorf("Authorization = %q", got)
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("decode payload: %v", err)
			}
		}
		_ = json.NewEncoder(w).Encode(slackResponse{OK: ok, Error: apiErr})
	}))
}

func TestSlackSend(t *testing.T) {
	var got slackMessage
	srv := newSlackTestServer(t, true, "", &got)
	defer srv.Close()

	p := NewSlackProvider("xoxb-test", "#alerts", logx.Nop())
	p.api = srv.URL

	if !p.Send(context.Background(), "🟢 BankID", "line one\nline two") {
		t.Fatal("Send returned false for ok response")
	}

	if got.Channel != "#alerts" {
		t.Fatalf("channel = %q", got.Channel)
	}
	if len(got.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(got.Blocks))
	}
	if got.Blocks[0].Type != "header" || got.Blocks[0].Text.Type != "plain_text" || got.Blocks[0].Text.Text != "🟢 BankID" {
		t.Fatalf("header block = %+v", got.Blocks[0])
	}
	if got.Blocks[1].Type != "section" || got.Blocks[1].Text.Type != "mrkdwn" {
		t.Fatalf("section block = %+v", got.Blocks[1])
	}
	// Continuation lines are quoted for Slack markdown.
	if got.Blocks[1].Text.Text != "line one\n>line two" {
		t.Fatalf("section text = %q", got.Blocks[1].Text.Text)
	}
}

func TestSlackSendAPIError(t *testing.T) {
	// Slack reports failures in the body with HTTP 200; the ok flag decides.
	srv := newSlackTestServer(t, false, "channel_not_found", nil)
	defer srv.Close()

	p := NewSlackProvider("xoxb-test", "#alerts", logx.Nop())
	p.api = srv.URL

	if p.Send(context.Background(), "t", "b") {
		t.Fatal("Send must return false when ok=false")
	}
}

func TestSlackDefaultChannel(t *testing.T) {
	p := NewSlackProvider("xoxb-test", "", logx.Nop())
	if p.channel != "#monitoring" {
		t.Fatalf("default channel = %q", p.channel)
	}
}
