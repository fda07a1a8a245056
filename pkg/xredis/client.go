package xredis

import (
	"context"
	"time"

	"github.com/basequest/backend/pkg/xcontext"
	"github.com/redis/go-redis/v9"
)

// Client covers the sorted-set surface the leaderboards need plus key
// existence checks for rebuild detection.
type Client interface {
	Exist(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key string) error
	ZAdd(ctx context.Context, key string, z redis.Z) error
	ZIncrBy(ctx context.Context, key string, incr int64, member string) error
	ZRevRangeWithScores(ctx context.Context, key string, offset, limit int) ([]redis.Z, error)
	ZRevRank(ctx context.Context, key string, member string) (uint64, error)
}

type client struct {
	rdb *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolSize:        5,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{rdb: rdb}, nil
}

func (c *client) Exist(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	return n == 1, err
}

func (c *client) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

func (c *client) ZAdd(ctx context.Context, key string, z redis.Z) error {
	return c.rdb.ZAdd(ctx, key, z).Err()
}

func (c *client) ZIncrBy(ctx context.Context, key string, incr int64, member string) error {
	return c.rdb.ZIncrBy(ctx, key, float64(incr), member).Err()
}

func (c *client) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	stop := int64(offset + limit - 1)
	return c.rdb.ZRevRangeWithScores(ctx, key, int64(offset), stop).Result()
}

func (c *client) ZRevRank(ctx context.Context, key string, member string) (uint64, error) {
	return c.rdb.ZRevRank(ctx, key, member).Uint64()
}
