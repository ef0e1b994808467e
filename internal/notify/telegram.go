package notify

import (
	"context"
	"net/http"
	"time"

	tele "gopkg.in/telebot.v4"

	logx "statuswatch/pkg/logx"
)

// TelegramProvider sends messages to a fixed chat via the Bot API.
// The bot is send-only; no update polling is started.
type TelegramProvider struct {
	bot    *tele.Bot
	chatID int64
	log    logx.Logger
}

func NewTelegramProvider(token string, chatID int64, log logx.Logger) (*TelegramProvider, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	b, err := tele.NewBot(tele.Settings{
		Token:   token,
		Offline: false,
		Client:  &http.Client{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}
	return &TelegramProvider{bot: b, chatID: chatID, log: log}, nil
}

func (p *TelegramProvider) Send(ctx context.Context, title, body string) bool {
	_ = ctx // telebot manages its own request timeouts

	text := title + "\n\n" + body
	if _, err := p.bot.Send(&tele.Chat{ID: p.chatID}, text); err != nil {
		p.log.Error("telegram: send failed", logx.Int64("chat_id", p.chatID), logx.Err(err))
		return false
	}

	p.log.Info("notification sent", logx.String("provider", "telegram"), logx.String("title", title))
	return true
}
