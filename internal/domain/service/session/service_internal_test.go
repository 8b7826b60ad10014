package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bazaar/internal/domain"
	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/value"
)

// Выселение, пришедшее во время хода, не должно вернуть сессию в кэш.
func TestEvictionDuringActionIsFinal(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	s := NewService(entity.DefaultRules())

	view, err := s.Create(ctx, nil)
	rq.NoError(err)

	sess, err := s.lookup(view.ID)
	rq.NoError(err)

	sess.mu.Lock()

	done := make(chan error, 1)
	go func() {
		_, _, err := s.Do(ctx, view.ID, value.ActionStart)
		done <- err
	}()

	// ход прошёл lookup и ждёт мьютекс
	time.Sleep(50 * time.Millisecond)

	evicted := make(chan struct{})
	go func() {
		s.sessions.Delete(view.ID)
		close(evicted)
	}()

	rq.Eventually(func() bool {
		_, ok := s.sessions.Get(view.ID)
		return !ok
	}, time.Second, 10*time.Millisecond)

	sess.mu.Unlock()

	doErr := <-done
	<-evicted

	if doErr != nil {
		rq.ErrorIs(doErr, domain.ErrSessionNotFound)
	}

	_, ok := s.sessions.Get(view.ID)
	rq.False(ok)

	ch, cancel := sess.subscribe()
	defer cancel()

	_, open := <-ch
	rq.False(open)

	_, err = s.lookup(view.ID)
	rq.ErrorIs(err, domain.ErrSessionNotFound)
}

func TestClosedSessionRejectsActions(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	s := NewService(entity.DefaultRules())

	view, err := s.Create(ctx, nil)
	rq.NoError(err)

	sess, err := s.lookup(view.ID)
	rq.NoError(err)

	sess.close()

	_, _, err = s.Do(ctx, view.ID, value.ActionStart)
	rq.ErrorIs(err, domain.ErrSessionNotFound)
	rq.False(sess.game.Running())
}
