package leaderboard_test

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
	"github.com/stretchr/testify/require"

	"bazaar/internal/domain/entity"
	"bazaar/internal/infrastructure/leaderboard"
)

func TestRedisLeaderboard(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	addr := os.Getenv("TEST_REDIS_ADDRESS")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDRESS is not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	key := "test:leaderboard:" + xid.New().String()
	defer client.Del(ctx, key)

	board := leaderboard.NewRedis(client).WithKey(key)

	rq.NoError(board.Submit(ctx, entity.LeaderboardEntry{SessionID: "a", Money: 210}))
	rq.NoError(board.Submit(ctx, entity.LeaderboardEntry{SessionID: "b", Money: 250}))
	rq.NoError(board.Submit(ctx, entity.LeaderboardEntry{SessionID: "c", Money: 200}))
	// хуже прежнего: не перезаписывает
	rq.NoError(board.Submit(ctx, entity.LeaderboardEntry{SessionID: "b", Money: 205}))

	top, err := board.Top(ctx, 2)
	rq.NoError(err)
	rq.Equal([]entity.LeaderboardEntry{
		{SessionID: "b", Money: 250},
		{SessionID: "a", Money: 210},
	}, top)
}
