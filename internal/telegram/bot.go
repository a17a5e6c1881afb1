package telegram

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API for a single allow-listed chat. Messages from
// any other chat are ignored entirely.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *log.Logger
}

func NewBot(token string, chatID int64, logger *log.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = false
	return &Bot{api: api, chatID: chatID, logger: logger}, nil
}

// Username returns the authorized bot account name.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// SendHTML sends one HTML-formatted payload to the configured chat with
// link previews disabled.
func (b *Bot) SendHTML(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

// SendTyping shows the typing indicator while a report is being built.
// Failures are cosmetic and only logged.
func (b *Bot) SendTyping() {
	action := tgbotapi.NewChatAction(b.chatID, tgbotapi.ChatTyping)
	if _, err := b.api.Request(action); err != nil {
		b.logger.Printf("send typing action: %v", err)
	}
}

// Poll long-polls for updates and invokes handler for every message from
// the configured chat whose text equals command case-insensitively. The
// handler runs to completion before the next update is read.
func (b *Bot) Poll(ctx context.Context, command string, handler func(context.Context)) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			if update.Message.Chat == nil || update.Message.Chat.ID != b.chatID {
				continue
			}
			if !strings.EqualFold(strings.TrimSpace(update.Message.Text), command) {
				continue
			}
			handler(ctx)
		}
	}
}
