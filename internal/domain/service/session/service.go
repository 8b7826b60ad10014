// Package session hosts many concurrent games behind string ids.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/xid"

	"bazaar/internal/domain"
	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/game"
	"bazaar/internal/domain/value"
	"bazaar/pkg/errcodes"
	"bazaar/pkg/logx"
	"bazaar/pkg/randx"
)

const (
	defaultSessionTTL = 30 * time.Minute
	cleanupInterval   = time.Minute
)

type RunRepository interface {
	Save(ctx context.Context, run entity.Run) error
	List(ctx context.Context, limit, offset int) ([]entity.Run, error)
}

type Leaderboard interface {
	Submit(ctx context.Context, entry entity.LeaderboardEntry) error
	Top(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error)
}

// Observer получает телеметрию игровых действий.
type Observer interface {
	ActionApplied(action value.Action, err error)
	EventEmitted(ev entity.Event)
	SessionsActive(n int)
}

type Service struct {
	rules    entity.Rules
	sessions *cache.Cache
	runs     RunRepository
	board    Leaderboard
	observer Observer
	now      func() time.Time
}

func NewService(rules entity.Rules) *Service {
	s := &Service{
		rules:    rules,
		sessions: cache.New(defaultSessionTTL, cleanupInterval),
		observer: nopObserver{},
		now:      time.Now,
	}

	s.sessions.OnEvicted(s.onEvicted)

	return s
}

// WithTTL задаёт время жизни неактивной сессии. Вызывать до первой Create.
func (s *Service) WithTTL(ttl time.Duration) *Service {
	s.sessions = cache.New(ttl, cleanupInterval)
	s.sessions.OnEvicted(s.onEvicted)
	return s
}

func (s *Service) WithRunRepository(runs RunRepository) *Service {
	s.runs = runs
	return s
}

func (s *Service) WithLeaderboard(board Leaderboard) *Service {
	s.board = board
	return s
}

func (s *Service) WithObserver(observer Observer) *Service {
	s.observer = observer
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create заводит новую сессию. Без seed берётся случайный.
func (s *Service) Create(ctx context.Context, seed *uint64) (View, error) {
	sd := rand.Uint64() //nolint:gosec // game randomness
	if seed != nil {
		sd = *seed
	}

	sess := &Session{
		id:   xid.New().String(),
		seed: sd,
		game: game.New(s.rules, randx.New(sd)),
		subs: make(map[int]chan entity.Event),
	}

	view := sess.view()

	s.sessions.Set(sess.id, sess, cache.DefaultExpiration)
	s.observer.SessionsActive(s.sessions.ItemCount())

	logger(ctx).Info("session created", slog.String(logx.FieldSessionID, sess.id))

	return view, nil
}

func (s *Service) Get(_ context.Context, id string) (View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return sess.view(), nil
}

// Do применяет действие игрока и рассылает события подписчикам.
// Недопустимое действие возвращает game.ErrInapplicable без изменения состояния.
func (s *Service) Do(ctx context.Context, id string, action value.Action) ([]entity.Event, View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	// сессию успели выселить между lookup и блокировкой
	if sess.closed {
		return nil, View{}, domain.ErrSessionNotFound
	}

	events, err := sess.game.Do(action)
	s.observer.ActionApplied(action, err)

	if err != nil {
		return nil, sess.view(), fmt.Errorf("game.Do(%s): %w", action, err)
	}

	// продлеваем жизнь активной сессии. Replace не вернёт в кэш уже выселенную.
	if err := s.sessions.Replace(id, sess, cache.DefaultExpiration); err != nil {
		logger(ctx).Debug("session expired during action", slog.String(logx.FieldSessionID, id))
	}

	for _, ev := range events {
		s.observer.EventEmitted(ev)

		switch p := ev.Payload.(type) {
		case entity.GameStarted:
			sess.startedAt = s.now()
		case entity.GameOver:
			s.finish(ctx, sess, p)
		}
	}

	sess.publish(events)

	logger(ctx).Debug("action applied",
		slog.String(logx.FieldSessionID, id),
		logx.Stringer(logx.FieldAction, action),
		slog.Int(logx.FieldMoney, sess.game.Money()),
		slog.Int("events", len(events)),
	)

	return events, sess.view(), nil
}

// Subscribe возвращает поток событий сессии. Канал закрывается при отписке,
// истечении сессии или если подписчик не успевает читать.
func (s *Service) Subscribe(_ context.Context, id string) (<-chan entity.Event, func(), error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}

	ch, cancel := sess.subscribe()

	return ch, cancel, nil
}

func (s *Service) Leaderboard(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error) {
	if s.board == nil {
		return nil, domain.ErrLeaderboardEmpty
	}

	entries, err := s.board.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("board.Top: %w", err)
	}

	return entries, nil
}

func (s *Service) Runs(ctx context.Context, limit, offset int) ([]entity.Run, error) {
	if s.runs == nil {
		return nil, domain.ErrRunsDisabled
	}

	runs, err := s.runs.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("runs.List: %w", err)
	}

	return runs, nil
}

func (s *Service) Active() int {
	return s.sessions.ItemCount()
}

// Delete закрывает сессию и её подписки.
func (s *Service) Delete(_ context.Context, id string) error {
	if _, err := s.lookup(id); err != nil {
		return err
	}

	s.sessions.Delete(id)

	return nil
}

func (s *Service) lookup(id string) (*Session, error) {
	if _, err := xid.FromString(id); err != nil {
		return nil, domain.WrapError(err, errcodes.InvalidSessionID, "invalid session id")
	}

	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	return v.(*Session), nil //nolint:forcetypeassert
}

// finish пишет партию в журнал и таблицу лидеров. Ошибки хранилищ не ломают игру.
func (s *Service) finish(ctx context.Context, sess *Session, over entity.GameOver) {
	logger(ctx).Info("game over",
		slog.String(logx.FieldSessionID, sess.id),
		slog.Bool("won", over.Won),
		slog.Int(logx.FieldMoney, over.FinalMoney),
	)

	if s.runs != nil {
		run := entity.Run{
			ID:         xid.New().String(),
			SessionID:  sess.id,
			Won:        over.Won,
			FinalMoney: over.FinalMoney,
			Stats:      sess.game.Stats(),
			StartedAt:  sess.startedAt,
			FinishedAt: s.now(),
		}

		if err := s.runs.Save(ctx, run); err != nil {
			logger(ctx).Error("failed to record run",
				slog.String(logx.FieldSessionID, sess.id),
				logx.Error(err),
			)
		}
	}

	if s.board != nil && over.Won {
		entry := entity.LeaderboardEntry{SessionID: sess.id, Money: over.FinalMoney}

		if err := s.board.Submit(ctx, entry); err != nil {
			logger(ctx).Error("failed to submit leaderboard entry",
				slog.String(logx.FieldSessionID, sess.id),
				logx.Error(err),
			)
		}
	}
}

func (s *Service) onEvicted(_ string, v any) {
	if sess, ok := v.(*Session); ok {
		sess.close()
	}

	s.observer.SessionsActive(s.sessions.ItemCount())
}

// IsInapplicable сообщает, что действие отклонено правилами игры.
func IsInapplicable(err error) bool {
	return errors.Is(err, game.ErrInapplicable)
}

type nopObserver struct{}

func (nopObserver) ActionApplied(value.Action, error) {}
func (nopObserver) EventEmitted(entity.Event)         {}
func (nopObserver) SessionsActive(int)                {}
