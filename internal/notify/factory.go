package notify

import (
	"fmt"
	"strings"

	"statuswatch/internal/config"
	logx "statuswatch/pkg/logx"
)

// NewProvider builds the configured transport adapter.
func NewProvider(cfg config.NotificationsConfig, sec Secrets, log logx.Logger) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gotify":
		if strings.TrimSpace(cfg.Gotify.URL) == "" {
			return nil, fmt.Errorf("notifications.gotify.url is required for the gotify provider")
		}
		if sec.GotifyToken == "" {
			return nil, fmt.Errorf("GOTIFY_TOKEN is required for the gotify provider")
		}
		return NewGotifyProvider(cfg.Gotify.URL, sec.GotifyToken, log), nil

	case "slack":
		if sec.SlackToken == "" {
			return nil, fmt.Errorf("SLACK_TOKEN is required for the slack provider")
		}
		return NewSlackProvider(sec.SlackToken, cfg.Slack.Channel, log), nil

	case "telegram":
		if sec.TelegramToken == "" {
			return nil, fmt.Errorf("TELEGRAM_TOKEN is required for the telegram provider")
		}
		if cfg.Telegram.ChatID == 0 {
			return nil, fmt.Errorf("notifications.telegram.chat_id is required for the telegram provider")
		}
		return NewTelegramProvider(sec.TelegramToken, cfg.Telegram.ChatID, log)

	default:
		return nil, fmt.Errorf("unsupported notification provider: %s", cfg.Provider)
	}
}
