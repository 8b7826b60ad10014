package session

import (
	"sync"
	"time"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/game"
)

const subscriberBuffer = 32

// Session: одна игра и её подписчики. Действия сериализуются мьютексом.
type Session struct {
	id   string
	seed uint64

	mu        sync.Mutex
	game      *game.Game
	startedAt time.Time
	subs      map[int]chan entity.Event
	nextSub   int
	closed    bool
}

// View: снимок сессии для транспорта.
type View struct {
	ID   string `json:"id"`
	Seed uint64 `json:"seed"`
	entity.Snapshot
}

func (s *Session) view() View {
	return View{
		ID:       s.id,
		Seed:     s.seed,
		Snapshot: s.game.Snapshot(),
	}
}

func (s *Session) subscribe() (<-chan entity.Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan entity.Event, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// publish не блокирует игру: медленный подписчик отключается.
// Вызывается под s.mu.
func (s *Session) publish(events []entity.Event) {
	for id, ch := range s.subs {
		if !deliver(ch, events) {
			delete(s.subs, id)
			close(ch)
		}
	}
}

func deliver(ch chan<- entity.Event, events []entity.Event) bool {
	for _, ev := range events {
		select {
		case ch <- ev:
		default:
			return false
		}
	}

	return true
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
