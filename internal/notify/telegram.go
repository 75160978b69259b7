// Package notify implements the outbound Telegram side of the dashboard:
// the instant new-reservation alert and the daily digest batch.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Photo is either a plain URL passed through to the Bot API or decoded
// binary data uploaded as a file.
type Photo struct {
	URL  string
	Data []byte
	Name string
}

// Messenger abstracts the Telegram send surface so the digest loop can run
// against a fake in tests.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, markdown bool) error
	SendPhoto(ctx context.Context, chatID int64, photo Photo, caption string) error
}

// TelegramMessenger sends through the Bot API behind a token-bucket
// limiter, one bucket per bot token.
type TelegramMessenger struct {
	api     *tgbotapi.BotAPI
	limiter *rate.Limiter
}

// NewTelegramMessenger builds a messenger for the given bot token.
// messagesPerSec bounds the outbound rate.
func NewTelegramMessenger(token string, messagesPerSec float64) (*TelegramMessenger, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram configuration missing: bot token")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	if messagesPerSec <= 0 {
		messagesPerSec = 20
	}
	return &TelegramMessenger{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(messagesPerSec), 1),
	}, nil
}

func (m *TelegramMessenger) SendMessage(ctx context.Context, chatID int64, text string, markdown bool) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	_, err := m.api.Send(msg)
	return err
}

func (m *TelegramMessenger) SendPhoto(ctx context.Context, chatID int64, photo Photo, caption string) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return err
	}

	var file tgbotapi.RequestFileData
	switch {
	case len(photo.Data) > 0:
		name := photo.Name
		if name == "" {
			name = "design.jpg"
		}
		file = tgbotapi.FileBytes{Name: name, Bytes: photo.Data}
	case photo.URL != "":
		file = tgbotapi.FileURL(photo.URL)
	default:
		return fmt.Errorf("empty photo payload")
	}

	msg := tgbotapi.NewPhoto(chatID, file)
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := m.api.Send(msg)
	return err
}
