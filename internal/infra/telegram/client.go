// internal/infra/telegram/client.go
package telegram

import (
	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the Notifier interface using the
// gopkg.in/telebot.v3 library. All notifications go to one configured
// admin chat.
type TelebotAdapter struct {
	bot    *telebot.Bot
	chatID int64
}

func NewTelebotAdapter(b *telebot.Bot, chatID int64) *TelebotAdapter {
	return &TelebotAdapter{bot: b, chatID: chatID}
}

// Notify sends a plain-text message to the configured admin chat.
func (tba *TelebotAdapter) Notify(text string) error {
	recipient := &telebot.User{ID: tba.chatID}
	_, err := tba.bot.Send(recipient, text)
	return err
}
