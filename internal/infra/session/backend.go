// Package session keeps per-browser session state on the server. The browser
// holds only an opaque session id cookie; values live in a Backend.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boddenberg/moza-banking-bfa-go/internal/infra/cache"

	"github.com/redis/go-redis/v9"
)

// Backend stores session values by fully-qualified key.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// ============================================================
// In-memory backend
// ============================================================

// MemoryBackend keeps session values in the process with a TTL.
type MemoryBackend struct {
	store *cache.InMemory[string]
}

// NewMemoryBackend creates an in-memory backend whose entries expire after ttl.
func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	return &MemoryBackend{store: cache.New[string](ttl)}
}

func (b *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := b.store.Get(key)
	return v, ok, nil
}

func (b *MemoryBackend) Set(_ context.Context, key, value string) error {
	b.store.Set(key, value)
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.store.Delete(key)
	return nil
}

func (b *MemoryBackend) Ping(context.Context) error { return nil }

func (b *MemoryBackend) Close() error {
	b.store.Close()
	return nil
}

// ============================================================
// Redis backend
// ============================================================

// RedisBackend keeps session values in Redis so several web instances can
// share sessions.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOptions configures NewRedisBackend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisBackend connects to Redis. The connection is lazy; use Ping to check it.
func NewRedisBackend(opts RedisOptions, ttl time.Duration) *RedisBackend {
	return &RedisBackend{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		ttl: ttl,
	}
}

func (b *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := b.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key, value string) error {
	if err := b.client.Set(ctx, key, value, b.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
