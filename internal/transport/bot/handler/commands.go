package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"bazaar/internal/domain"
	"bazaar/internal/domain/value"
	"bazaar/pkg/errcodes"
)

const (
	textHelp = "🏪 <b>Bazaar</b>\n\n" +
		"Buy cheap from sellers, sell dear to buyers, reach 200 before you go broke.\n" +
		"Scan goods to spot fakes and dangerous items, report them for a reward.\n\n" +
		"/play: new game\n/state: current game\n/top: leaderboard"
	textNoGame         = "No game in this chat. Send /play to start one."
	textNoLeaderboard  = "Leaderboard is not available."
	textEmptyBoard     = "Nobody has won yet."
	textActionNotNow   = "Not now"
	textUnknownAction  = "Unknown action"
	textSessionExpired = "The game has expired, send /play"
)

func (h *Handler) OnHelp(ctx *th.Context, msg telego.Message) error {
	return h.presenter.SendText(ctx, msg.Chat.ID, textHelp)
}

func (h *Handler) OnPlay(ctx *th.Context, msg telego.Message) error {
	return h.Play(ctx, msg.Chat.ID)
}

func (h *Handler) OnState(ctx *th.Context, msg telego.Message) error {
	return h.State(ctx, msg.Chat.ID)
}

func (h *Handler) OnTop(ctx *th.Context, msg telego.Message) error {
	return h.Top(ctx, msg.Chat.ID)
}

// Play начинает новую игру в чате, прежняя игра чата забывается.
func (h *Handler) Play(ctx context.Context, chatID int64) error {
	created, err := h.sessions.Create(ctx, nil)
	if err != nil {
		return fmt.Errorf("sessions.Create: %w", err)
	}

	events, view, err := h.sessions.Do(ctx, created.ID, value.ActionStart)
	if err != nil {
		return fmt.Errorf("sessions.Do: %w", err)
	}

	h.bind(chatID, created.ID)

	if err := h.presenter.Show(ctx, chatID, view, events); err != nil {
		return fmt.Errorf("presenter.Show: %w", err)
	}

	return nil
}

func (h *Handler) State(ctx context.Context, chatID int64) error {
	id, ok := h.sessionOf(chatID)
	if !ok {
		return h.presenter.SendText(ctx, chatID, textNoGame)
	}

	view, err := h.sessions.Get(ctx, id)
	if isGone(err) {
		h.unbind(chatID)
		return h.presenter.SendText(ctx, chatID, textNoGame)
	}
	if err != nil {
		return fmt.Errorf("sessions.Get: %w", err)
	}

	h.bind(chatID, id)

	if err := h.presenter.Show(ctx, chatID, view, nil); err != nil {
		return fmt.Errorf("presenter.Show: %w", err)
	}

	return nil
}

func (h *Handler) Top(ctx context.Context, chatID int64) error {
	entries, err := h.sessions.Leaderboard(ctx, topLimit)
	if code, ok := domain.GetCode(err); ok && code == errcodes.LeaderboardDisabled {
		return h.presenter.SendText(ctx, chatID, textNoLeaderboard)
	}
	if err != nil {
		return fmt.Errorf("sessions.Leaderboard: %w", err)
	}

	if len(entries) == 0 {
		return h.presenter.SendText(ctx, chatID, textEmptyBoard)
	}

	var sb strings.Builder

	sb.WriteString("🏆 <b>Top</b>\n\n")

	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. <code>%s</code>: %d\n", i+1, e.SessionID, e.Money)
	}

	return h.presenter.SendText(ctx, chatID, sb.String())
}

func isGone(err error) bool {
	code, ok := domain.GetCode(err)

	return ok && (code == errcodes.SessionNotFound || code == errcodes.InvalidSessionID)
}
