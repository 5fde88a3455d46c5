// Package redis implements core.Cache over a Redis instance so session
// verification stays warm across multiple application processes. The
// cache is strictly best-effort; a cold or unreachable Redis only costs
// a PostgreSQL round-trip.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linkvault-app/linkvault/core"
)

const keyPrefix = "linkvault:session:"

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ core.Cache = (*Cache)(nil)

func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

// NewFromURL connects to redisURL (redis://...) and pings the instance
// before returning a cache backed by it.
func NewFromURL(ctx context.Context, redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return New(client, ttl), nil
}

// cachedSession mirrors core.Session with every field serialized.
// core.Session hides TokenHash from JSON on purpose, but inside the
// cache we need it back intact.
type cachedSession struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	TokenHash string    `json:"tokenHash"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Cache) Get(ctx context.Context, tokenHash string) (*core.Session, error) {
	data, err := c.client.Get(ctx, keyPrefix+tokenHash).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrCacheNotFound
		}
		return nil, fmt.Errorf("failed to read session from redis: %w", err)
	}

	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupt entry; treat as a miss and let it age out.
		return nil, core.ErrCacheNotFound
	}

	return &core.Session{
		ID:        cached.ID,
		AccountID: cached.AccountID,
		TokenHash: cached.TokenHash,
		IPAddress: cached.IPAddress,
		UserAgent: cached.UserAgent,
		ExpiresAt: cached.ExpiresAt,
		CreatedAt: cached.CreatedAt,
		UpdatedAt: cached.UpdatedAt,
	}, nil
}

func (c *Cache) Set(ctx context.Context, tokenHash string, session *core.Session) error {
	data, err := json.Marshal(cachedSession{
		ID:        session.ID,
		AccountID: session.AccountID,
		TokenHash: session.TokenHash,
		IPAddress: session.IPAddress,
		UserAgent: session.UserAgent,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	return c.client.Set(ctx, keyPrefix+tokenHash, data, c.ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, tokenHash string) error {
	return c.client.Del(ctx, keyPrefix+tokenHash).Err()
}

func (c *Cache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close releases the underlying redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
