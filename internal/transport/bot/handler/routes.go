package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"bazaar/internal/infrastructure/notifier"
	"bazaar/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, allowedChats []int64) {
	bh.Use(middleware.AllowedChats(allowedChats))

	bh.HandleMessage(h.OnHelp, th.CommandEqual("start"))
	bh.HandleMessage(h.OnHelp, th.CommandEqual("help"))
	bh.HandleMessage(h.OnPlay, th.CommandEqual("play"))
	bh.HandleMessage(h.OnState, th.CommandEqual("state"))
	bh.HandleMessage(h.OnTop, th.CommandEqual("top"))

	bh.HandleCallbackQuery(h.OnAction, th.CallbackDataPrefix(notifier.CallbackPrefix))
}
