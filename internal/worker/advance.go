package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"bazaar/internal/domain"
	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/session"
	"bazaar/internal/domain/value"
	"bazaar/pkg/errcodes"
	"bazaar/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	TaskAdvance  = "session:advance"
	QueueDefault = "default"
)

type advancePayload struct {
	ChatID    int64  `json:"chatId"`
	SessionID string `json:"sessionId"`
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AdvanceScheduler откладывает переход к следующему клиенту,
// чтобы игрок успел прочитать итог встречи.
type AdvanceScheduler struct {
	client enqueuer
	delay  time.Duration
}

func NewAdvanceScheduler(client enqueuer, delay time.Duration) *AdvanceScheduler {
	return &AdvanceScheduler{
		client: client,
		delay:  delay,
	}
}

func (s *AdvanceScheduler) ScheduleAdvance(ctx context.Context, chatID int64, sessionID string) error {
	payload, err := json.Marshal(advancePayload{ChatID: chatID, SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	task := asynq.NewTask(TaskAdvance, payload)

	if _, err := s.client.EnqueueContext(
		ctx,
		task,
		asynq.ProcessIn(s.delay),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(1),
	); err != nil {
		return fmt.Errorf("client.EnqueueContext: %w", err)
	}

	return nil
}

type advancer interface {
	Do(ctx context.Context, id string, action value.Action) ([]entity.Event, session.View, error)
}

type presenter interface {
	Show(ctx context.Context, chatID int64, v session.View, events []entity.Event) error
}

// AdvanceHandler выполняет отложенный advance и показывает следующего клиента.
type AdvanceHandler struct {
	sessions  advancer
	presenter presenter
}

func NewAdvanceHandler(sessions advancer, presenter presenter) *AdvanceHandler {
	return &AdvanceHandler{
		sessions:  sessions,
		presenter: presenter,
	}
}

func (h *AdvanceHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload advancePayload

	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal: %v: %w", err, asynq.SkipRetry)
	}

	log := logger(ctx).With(
		slog.String(logx.FieldTaskType, task.Type()),
		slog.String(logx.FieldSessionID, payload.SessionID),
		slog.Int64(logx.FieldChatID, payload.ChatID),
	)

	events, view, err := h.sessions.Do(ctx, payload.SessionID, value.ActionAdvance)

	switch {
	case err == nil:
	case session.IsInapplicable(err):
		// игрок уже продвинулся сам (через HTTP) или начал новую игру
		log.Debug("advance skipped", logx.Error(err))
		return nil
	case isGone(err):
		log.Info("advance for expired session dropped")
		return nil
	default:
		return fmt.Errorf("sessions.Do: %w", err)
	}

	if err := h.presenter.Show(ctx, payload.ChatID, view, events); err != nil {
		return fmt.Errorf("presenter.Show: %w", err)
	}

	return nil
}

func isGone(err error) bool {
	code, ok := domain.GetCode(err)

	return ok && (code == errcodes.SessionNotFound || code == errcodes.InvalidSessionID)
}
