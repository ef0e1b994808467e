package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	logx "statuswatch/pkg/logx"
)

func TestGotifySend(t *testing.T) {
	var got gotifyMessage
	var gotKey, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Gotify-Key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewGotifyProvider(srv.URL+"/", "sekrit", logx.Nop())
	if !p.Send(context.Background(), "🔴 BankID", "down") {
		t.Fatal("Send returned false for accepted message")
	}

	if gotPath != "/message" {
		t.Fatalf("path = %q, want /message", gotPath)
	}
	if gotKey != "sekrit" {
		t.Fatalf("X-Gotify-Key = %q", gotKey)
	}
	if got.Title != "🔴 BankID" || got.Message != "down" || got.Priority != 5 {
		t.Fatalf("payload = %+v", got)
	}
}

func TestGotifySendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewGotifyProvider(srv.URL, "sekrit", logx.Nop())
	if p.Send(context.Background(), "t", "b") {
		t.Fatal("Send must return false on a 5xx response")
	}
}

func TestGotifySendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	p := NewGotifyProvider(srv.URL, "sekrit", logx.Nop())
	if p.Send(context.Background(), "t", "b") {
		t.Fatal("Send must return false when the server is unreachable")
	}
}
