package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/handiism/destreamer/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores the session under one Redis key, letting several
// machines share a single interactive login.
type RedisCache struct {
	client *redis.Client
	key    string
	margin time.Duration
	now    func() time.Time
}

// NewRedisCache connects to the Redis server described by rawURL
// (redis://[:password@]host:port/db).
func NewRedisCache(rawURL, key string, margin time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return NewRedisCacheWithClient(redis.NewClient(opts), key, margin), nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client *redis.Client, key string, margin time.Duration) *RedisCache {
	return &RedisCache{client: client, key: key, margin: margin, now: time.Now}
}

func (c *RedisCache) Read(ctx context.Context) (model.Session, bool) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		return model.Session{}, false
	}
	return decodeSession(data, c.now(), c.margin)
}

// Write stores the session with a TTL matching its remaining validity.
// An already expired session is not stored and drops any previous entry,
// since a zero TTL would keep the key forever.
func (c *RedisCache) Write(ctx context.Context, session model.Session) error {
	ttl := session.ExpiresAt.Sub(c.now())
	if ttl <= 0 {
		return c.client.Del(ctx, c.key).Err()
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, data, ttl).Err()
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
