// Package notify delivers titled messages through a configured transport.
//
// Providers convert every transport error into a false return plus a
// logged diagnostic. Callers never receive an error from Send, so the
// engine can proceed unconditionally after every attempt.
package notify

import (
	"context"
	"os"
)

// Provider is the notification port: one operation, send a titled message.
type Provider interface {
	Send(ctx context.Context, title, body string) bool
}

// Secrets are transport credentials resolved from the environment after
// an optional .env load. They are never read from the config file.
type Secrets struct {
	GotifyToken   string
	SlackToken    string
	TelegramToken string
}

func SecretsFromEnv() Secrets {
	return Secrets{
		GotifyToken:   os.Getenv("GOTIFY_TOKEN"),
		SlackToken:    os.Getenv("SLACK_TOKEN"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
	}
}
