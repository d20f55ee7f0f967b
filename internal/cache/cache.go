package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent. Callers fall through to
// postgres and re-populate.
var ErrMiss = errors.New("cache: miss")

// Cache is a small read-through cache for hot dashboard reads (stats,
// leaderboard). A nil *Cache is valid and behaves as always-miss, so the
// service runs fine without redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: ping failed: %w", err)
	}

	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{client: client, ttl: ttl}, nil
}

func statsKey(userID uuid.UUID) string { return "progress:stats:" + userID.String() }

const leaderboardKey = "progress:leaderboard"

// GetJSON loads and unmarshals a key into dest.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) error {
	if c == nil {
		return ErrMiss
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("cache: get %s: %w", key, err)
	}
	return json.Unmarshal(raw, dest)
}

// SetJSON marshals and stores a value with the cache TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

func (c *Cache) GetStats(ctx context.Context, userID uuid.UUID, dest any) error {
	return c.GetJSON(ctx, statsKey(userID), dest)
}

func (c *Cache) SetStats(ctx context.Context, userID uuid.UUID, value any) error {
	return c.SetJSON(ctx, statsKey(userID), value)
}

func (c *Cache) GetLeaderboard(ctx context.Context, dest any) error {
	return c.GetJSON(ctx, leaderboardKey, dest)
}

func (c *Cache) SetLeaderboard(ctx context.Context, value any) error {
	return c.SetJSON(ctx, leaderboardKey, value)
}

// InvalidateUser drops the cached entries a new journal entry makes stale.
func (c *Cache) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	if c == nil {
		return
	}
	c.client.Del(ctx, statsKey(userID), leaderboardKey)
}

// Close releases the redis connection pool.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
