package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/xid"
	"github.com/stretchr/testify/require"

	"bazaar/internal/domain"
	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/game"
	"bazaar/internal/domain/service/session"
	"bazaar/internal/domain/value"
	"bazaar/pkg/errcodes"
)

type fakeRuns struct {
	mu   sync.Mutex
	runs []entity.Run
	err  error
}

func (f *fakeRuns) Save(_ context.Context, run entity.Run) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.runs = append(f.runs, run)

	return nil
}

func (f *fakeRuns) List(_ context.Context, limit, offset int) ([]entity.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if offset >= len(f.runs) {
		return nil, nil
	}

	return f.runs[offset:min(len(f.runs), offset+limit)], nil
}

type fakeBoard struct {
	entries []entity.LeaderboardEntry
}

func (f *fakeBoard) Submit(_ context.Context, e entity.LeaderboardEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeBoard) Top(_ context.Context, limit int) ([]entity.LeaderboardEntry, error) {
	return f.entries[:min(limit, len(f.entries))], nil
}

type fakeObserver struct {
	mu      sync.Mutex
	actions map[value.Action]int
	failed  int
	events  map[entity.EventType]int
	active  int
}

func newFakeObserver() *fakeObserver {
	return &fakeObserver{
		actions: map[value.Action]int{},
		events:  map[entity.EventType]int{},
	}
}

func (f *fakeObserver) ActionApplied(a value.Action, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.actions[a]++
	if err != nil {
		f.failed++
	}
}

func (f *fakeObserver) EventEmitted(ev entity.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events[ev.Type]++
}

func (f *fakeObserver) SessionsActive(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.active = n
}

func seed(v uint64) *uint64 { return &v }

// Правила, при которых первое же сканирование разоряет игрока.
func losingRules() entity.Rules {
	rules := entity.DefaultRules()
	rules.StartMoney = 3

	return rules
}

// Правила, при которых любой донос приносит победу.
func winningRules() entity.Rules {
	rules := entity.DefaultRules()
	rules.StartMoney = 199
	rules.ScanCost = 0
	rules.ReportReward = entity.ReportReward{Fake: 5, Danger: 5, False: 5}

	return rules
}

func TestCreateAndGet(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := session.NewService(entity.DefaultRules())

	created, err := svc.Create(ctx, seed(7))
	rq.NoError(err)
	rq.Equal(uint64(7), created.Seed)
	rq.Equal(100, created.Money)
	rq.False(created.Running)
	rq.Equal([]value.Action{value.ActionStart}, created.Allowed)
	rq.Equal(1, svc.Active())

	got, err := svc.Get(ctx, created.ID)
	rq.NoError(err)
	rq.Equal(created, got)
}

func TestLookupErrors(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := session.NewService(entity.DefaultRules())

	testCases := []struct {
		name string
		id   string
		code string
	}{
		{name: "Unknown session", id: xid.New().String(), code: errcodes.SessionNotFound.String()},
		{name: "Malformed id", id: "not-an-id", code: errcodes.InvalidSessionID.String()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			_, err := svc.Get(ctx, tc.id)
			rq.Error(err)

			code, ok := domain.GetCode(err)
			rq.True(ok)
			rq.Equal(tc.code, code.String())

			_, _, err = svc.Do(ctx, tc.id, value.ActionStart)
			rq.Error(err)
		})
	}
}

func TestDoIsSeededAndDeterministic(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := session.NewService(entity.DefaultRules())

	a, err := svc.Create(ctx, seed(42))
	rq.NoError(err)
	b, err := svc.Create(ctx, seed(42))
	rq.NoError(err)

	for _, action := range []value.Action{value.ActionStart, value.ActionReject, value.ActionAdvance, value.ActionReject} {
		evA, viewA, err := svc.Do(ctx, a.ID, action)
		rq.NoError(err)
		evB, viewB, err := svc.Do(ctx, b.ID, action)
		rq.NoError(err)

		rq.Equal(evA, evB)
		rq.Equal(viewA.Snapshot, viewB.Snapshot)
	}
}

func TestDoInapplicable(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	observer := newFakeObserver()
	svc := session.NewService(entity.DefaultRules()).WithObserver(observer)

	created, err := svc.Create(ctx, seed(1))
	rq.NoError(err)

	_, view, err := svc.Do(ctx, created.ID, value.ActionDeal)
	rq.ErrorIs(err, game.ErrInapplicable)
	rq.True(session.IsInapplicable(err))
	rq.Equal(created.Snapshot, view.Snapshot)
	rq.Equal(1, observer.failed)
}

func TestGameOverIsRecorded(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	testCases := []struct {
		name       string
		rules      entity.Rules
		actions    []value.Action
		won        bool
		boardCount int
	}{
		{
			name:    "Loss goes to the journal only",
			rules:   losingRules(),
			actions: []value.Action{value.ActionStart, value.ActionScan},
			won:     false,
		},
		{
			name:       "Win goes to the journal and the leaderboard",
			rules:      winningRules(),
			actions:    []value.Action{value.ActionStart, value.ActionScan, value.ActionReport},
			won:        true,
			boardCount: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			runs := &fakeRuns{}
			board := &fakeBoard{}
			svc := session.NewService(tc.rules).WithRunRepository(runs).WithLeaderboard(board)

			created, err := svc.Create(ctx, seed(3))
			rq.NoError(err)

			var events []entity.Event
			for _, a := range tc.actions {
				events, _, err = svc.Do(ctx, created.ID, a)
				rq.NoError(err)
			}

			over, ok := events[len(events)-1].Payload.(entity.GameOver)
			rq.True(ok)
			rq.Equal(tc.won, over.Won)

			recorded, err := svc.Runs(ctx, 10, 0)
			rq.NoError(err)
			rq.Len(recorded, 1)
			rq.Equal(created.ID, recorded[0].SessionID)
			rq.Equal(over.FinalMoney, recorded[0].FinalMoney)
			rq.Equal(1, recorded[0].Stats.Encounters)
			rq.False(recorded[0].StartedAt.IsZero())

			top, err := svc.Leaderboard(ctx, 10)
			rq.NoError(err)
			rq.Len(top, tc.boardCount)
		})
	}
}

func TestJournalFailureDoesNotFailAction(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := session.NewService(losingRules()).WithRunRepository(&fakeRuns{err: errors.New("db is down")})

	created, err := svc.Create(ctx, seed(3))
	rq.NoError(err)

	_, _, err = svc.Do(ctx, created.ID, value.ActionStart)
	rq.NoError(err)

	_, view, err := svc.Do(ctx, created.ID, value.ActionScan)
	rq.NoError(err)
	rq.True(view.GameOver)
}

func TestStoresNotConfigured(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := session.NewService(entity.DefaultRules())

	_, err := svc.Runs(ctx, 10, 0)
	rq.ErrorIs(err, domain.ErrRunsDisabled)

	_, err = svc.Leaderboard(ctx, 10)
	rq.ErrorIs(err, domain.ErrLeaderboardEmpty)
}

func TestSubscribe(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := session.NewService(entity.DefaultRules())

	created, err := svc.Create(ctx, seed(9))
	rq.NoError(err)

	events, cancel, err := svc.Subscribe(ctx, created.ID)
	rq.NoError(err)
	defer cancel()

	emitted, _, err := svc.Do(ctx, created.ID, value.ActionStart)
	rq.NoError(err)

	for _, want := range emitted {
		rq.Equal(want, <-events)
	}

	rq.NoError(svc.Delete(ctx, created.ID))

	_, open := <-events
	rq.False(open)
	rq.Zero(svc.Active())
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := session.NewService(entity.DefaultRules())

	created, err := svc.Create(ctx, seed(11))
	rq.NoError(err)

	events, cancel, err := svc.Subscribe(ctx, created.ID)
	rq.NoError(err)
	defer cancel()

	_, _, err = svc.Do(ctx, created.ID, value.ActionStart)
	rq.NoError(err)

	// Первый клиент: всегда продавец, после сканирования можно торговаться бесконечно.
	_, _, err = svc.Do(ctx, created.ID, value.ActionScan)
	rq.NoError(err)

	for range 40 {
		_, _, err = svc.Do(ctx, created.ID, value.ActionCounter)
		rq.NoError(err)
	}

	received := 0
	for range events {
		received++
	}

	rq.Equal(32, received)
}
