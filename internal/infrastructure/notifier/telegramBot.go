package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/session"
	"bazaar/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// TelegramBot показывает ход игры в чате.
type TelegramBot struct {
	bot *telego.Bot
}

func NewTelegramBot(bot *telego.Bot) *TelegramBot {
	return &TelegramBot{
		bot: bot,
	}
}

// Show отправляет новое сообщение с событиями и кнопками доступных действий.
func (b *TelegramBot) Show(ctx context.Context, chatID int64, v session.View, events []entity.Event) error {
	msg := tu.Message(
		tu.ID(chatID),
		RenderText(v, events),
	).WithParseMode(telego.ModeHTML)

	if keyboard := Keyboard(v.Allowed); keyboard != nil {
		msg = msg.WithReplyMarkup(keyboard)
	}

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	return nil
}

// Retire убирает кнопки с сообщения, по которому уже сделан ход.
func (b *TelegramBot) Retire(ctx context.Context, chatID int64, messageID int) error {
	_, err := b.bot.EditMessageReplyMarkup(ctx, &telego.EditMessageReplyMarkupParams{
		ChatID:    tu.ID(chatID),
		MessageID: messageID,
	})
	if err != nil {
		// сообщение могло быть удалено пользователем
		logger(ctx).Debug("bot.EditMessageReplyMarkup failed", "error", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, chatID int64, text string) error {
	msg := tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	return nil
}
