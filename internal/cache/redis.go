package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/coder47007/Campus-Match-App-sub001/internal/config"
	"github.com/redis/go-redis/v9"
)

// PresenceTTL bounds how long a presence mark survives without a refresh,
// so a crashed instance does not leave students marked online forever.
const PresenceTTL = 2 * time.Minute

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.Client.Incr(ctx, key).Result()
}

func (c *RedisCache) Decr(ctx context.Context, key string) (int64, error) {
	return c.Client.Decr(ctx, key).Result()
}

// KeyForLikeCount generates the Redis key for a student's like count.
func (c *RedisCache) KeyForLikeCount(studentID uint64) string {
	return fmt.Sprintf("likes:count:%d", studentID)
}

func (c *RedisCache) GetLikeCount(ctx context.Context, studentID uint64) (int64, bool, error) {
	key := c.KeyForLikeCount(studentID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, time.Hour).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c *RedisCache) UpdateLikeCount(ctx context.Context, studentID uint64, count int64) error {
	// Always refresh TTL when updating.
	return c.Client.Set(ctx, c.KeyForLikeCount(studentID), count, time.Hour).Err()
}

// KeyForPresence generates the Redis key marking a student as online.
func (c *RedisCache) KeyForPresence(studentID uint64) string {
	return fmt.Sprintf("presence:%d", studentID)
}

// MarkOnline records a presence mark with TTL. instanceID identifies which
// server instance holds the live connection.
func (c *RedisCache) MarkOnline(ctx context.Context, studentID uint64, instanceID string) error {
	return c.Client.Set(ctx, c.KeyForPresence(studentID), instanceID, PresenceTTL).Err()
}

func (c *RedisCache) MarkOffline(ctx context.Context, studentID uint64) error {
	return c.Client.Del(ctx, c.KeyForPresence(studentID)).Err()
}

// IsOnline reports whether any instance currently holds a connection for
// the student.
func (c *RedisCache) IsOnline(ctx context.Context, studentID uint64) (bool, error) {
	_, err := c.Client.Get(ctx, c.KeyForPresence(studentID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}
