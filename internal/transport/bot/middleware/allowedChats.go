package middleware

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	"github.com/samber/lo"
)

// AllowedChats пропускает дальше только обновления из разрешённых чатов.
// Пустой список разрешает все чаты.
func AllowedChats(chatIDs []int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		if len(chatIDs) == 0 {
			return ctx.Next(update)
		}

		chatID, ok := ChatID(update)
		if !ok {
			return nil
		}

		if lo.Contains(chatIDs, chatID) {
			return ctx.Next(update)
		}

		return nil
	}
}

// ChatID достаёт чат из сообщения или callback-запроса.
func ChatID(update telego.Update) (int64, bool) {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.GetChat().ID, true
	default:
		return 0, false
	}
}
