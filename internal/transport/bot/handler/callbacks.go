package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"bazaar/internal/domain/service/session"
	"bazaar/internal/domain/value"
	"bazaar/internal/infrastructure/notifier"
	"bazaar/pkg/logx"
)

func (h *Handler) OnAction(ctx *th.Context, query telego.CallbackQuery) error {
	if query.Message == nil {
		return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).WithText(textSessionExpired))
	}

	notice, err := h.Act(ctx, query.Message.GetChat().ID, query.Message.GetMessageID(), query.Data)

	// Обязательно отвечаем на коллбэк, чтобы убрать часики
	answer := tu.CallbackQuery(query.ID)
	if notice != "" {
		answer = answer.WithText(notice)
	}

	if answerErr := ctx.Bot().AnswerCallbackQuery(ctx, answer); answerErr != nil {
		logger(ctx).Warn("bot.AnswerCallbackQuery failed", logx.Error(answerErr))
	}

	return err
}

// Act применяет действие с кнопки. notice: короткий ответ на нажатие,
// когда действие не выполнено.
func (h *Handler) Act(ctx context.Context, chatID int64, messageID int, data string) (string, error) {
	action, err := value.ParseAction(strings.TrimPrefix(data, notifier.CallbackPrefix))
	if err != nil || action == value.ActionAdvance {
		return textUnknownAction, nil
	}

	id, ok := h.sessionOf(chatID)
	if !ok {
		return textSessionExpired, nil
	}

	events, view, err := h.sessions.Do(ctx, id, action)

	switch {
	case err == nil:
	case session.IsInapplicable(err):
		return textActionNotNow, nil
	case isGone(err):
		h.unbind(chatID)
		return textSessionExpired, nil
	default:
		return "", fmt.Errorf("sessions.Do: %w", err)
	}

	// сессия продлевается на каждом ходе, привязка чата тоже
	h.bind(chatID, id)

	if err := h.presenter.Retire(ctx, chatID, messageID); err != nil {
		return "", fmt.Errorf("presenter.Retire: %w", err)
	}

	if err := h.presenter.Show(ctx, chatID, view, events); err != nil {
		return "", fmt.Errorf("presenter.Show: %w", err)
	}

	if view.AwaitingAdvance {
		if err := h.advance(ctx, chatID, id); err != nil {
			return "", fmt.Errorf("advance: %w", err)
		}
	}

	return "", nil
}

// advance переводит игру к следующему клиенту: через очередь с задержкой,
// а без очереди сразу.
func (h *Handler) advance(ctx context.Context, chatID int64, sessionID string) error {
	if h.scheduler != nil {
		err := h.scheduler.ScheduleAdvance(ctx, chatID, sessionID)
		if err == nil {
			return nil
		}

		logger(ctx).Warn(
			"advance not scheduled, running it now",
			slog.String(logx.FieldSessionID, sessionID),
			logx.Error(err),
		)
	}

	events, view, err := h.sessions.Do(ctx, sessionID, value.ActionAdvance)
	if err != nil {
		return fmt.Errorf("sessions.Do: %w", err)
	}

	if err := h.presenter.Show(ctx, chatID, view, events); err != nil {
		return fmt.Errorf("presenter.Show: %w", err)
	}

	return nil
}
