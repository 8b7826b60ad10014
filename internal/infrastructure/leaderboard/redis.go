// Package leaderboard keeps the best winning balance per session in a redis
// sorted set.
package leaderboard

import (
	"context"

	"github.com/redis/go-redis/v9"

	"bazaar/internal/domain"
	"bazaar/internal/domain/entity"
	"bazaar/pkg/errcodes"
	"bazaar/pkg/lox"
)

const defaultKey = "bazaar:leaderboard"

type Redis struct {
	client *redis.Client
	key    string
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, key: defaultKey}
}

// WithKey нужен тестам, чтобы не делить ключ с живой таблицей.
func (r *Redis) WithKey(key string) *Redis {
	r.key = key
	return r
}

// Submit сохраняет результат, только если он лучше прежнего для этой сессии.
func (r *Redis) Submit(ctx context.Context, e entity.LeaderboardEntry) error {
	err := r.client.ZAddGT(ctx, r.key, redis.Z{
		Score:  float64(e.Money),
		Member: e.SessionID,
	}).Err()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to submit score")
	}

	return nil
}

func (r *Redis) Top(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error) {
	zs, err := r.client.ZRevRangeWithScores(ctx, r.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to read leaderboard")
	}

	return lox.Map(zs, func(z redis.Z) entity.LeaderboardEntry {
		member, _ := z.Member.(string)
		return entity.LeaderboardEntry{SessionID: member, Money: int(z.Score)}
	}), nil
}
