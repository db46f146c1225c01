package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	MSet(ctx context.Context, values ...any) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisBackend namespaces every key under a prefix. MSET keeps PutMany atomic.
type RedisBackend struct {
	store  redisCmdable
	raw    *redis.Client
	prefix string
}

// NewRedisBackend connects to url and verifies the server answers.
func NewRedisBackend(ctx context.Context, url, prefix string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisBackend{store: raw, raw: raw, prefix: prefix}, nil
}

func (r *RedisBackend) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return strings.TrimSuffix(r.prefix, ":") + ":" + key
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.store.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (r *RedisBackend) Put(ctx context.Context, key string, value []byte) error {
	return r.store.Set(ctx, r.key(key), value, 0).Err()
}

func (r *RedisBackend) PutMany(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}
	pairs := make([]any, 0, len(entries)*2)
	for key, value := range entries {
		pairs = append(pairs, r.key(key), value)
	}
	return r.store.MSet(ctx, pairs...).Err()
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	return r.store.Del(ctx, r.key(key)).Err()
}

func (r *RedisBackend) Close() error {
	if r.raw == nil {
		return nil
	}
	return r.raw.Close()
}
