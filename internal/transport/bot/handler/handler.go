package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/session"
	"bazaar/internal/domain/value"
	"bazaar/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	defaultChatTTL = 30 * time.Minute
	topLimit       = 10
)

type sessionService interface {
	Create(ctx context.Context, seed *uint64) (session.View, error)
	Get(ctx context.Context, id string) (session.View, error)
	Do(ctx context.Context, id string, action value.Action) ([]entity.Event, session.View, error)
	Leaderboard(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error)
}

type presenter interface {
	Show(ctx context.Context, chatID int64, v session.View, events []entity.Event) error
	Retire(ctx context.Context, chatID int64, messageID int) error
	SendText(ctx context.Context, chatID int64, text string) error
}

type scheduler interface {
	ScheduleAdvance(ctx context.Context, chatID int64, sessionID string) error
}

// Handler ведёт по одной игре на чат.
type Handler struct {
	sessions  sessionService
	presenter presenter
	scheduler scheduler
	// chatID -> sessionID
	chats *cache.Cache
}

func New(sessions sessionService, presenter presenter) *Handler {
	return &Handler{
		sessions:  sessions,
		presenter: presenter,
		chats:     cache.New(defaultChatTTL, time.Minute),
	}
}

// WithScheduler включает отложенный advance через очередь.
// Без него следующий клиент появляется сразу.
func (h *Handler) WithScheduler(s scheduler) *Handler {
	h.scheduler = s
	return h
}

// WithChatTTL выравнивает срок привязки чата со сроком жизни сессии.
func (h *Handler) WithChatTTL(ttl time.Duration) *Handler {
	h.chats = cache.New(ttl, time.Minute)
	return h
}

func (h *Handler) sessionOf(chatID int64) (string, bool) {
	v, ok := h.chats.Get(chatKey(chatID))
	if !ok {
		return "", false
	}

	return v.(string), true //nolint:forcetypeassert
}

func (h *Handler) bind(chatID int64, sessionID string) {
	h.chats.SetDefault(chatKey(chatID), sessionID)
}

func (h *Handler) unbind(chatID int64) {
	h.chats.Delete(chatKey(chatID))
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
