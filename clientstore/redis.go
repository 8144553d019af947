package clientstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps items in Redis so that every console instance behind a
// load balancer sees the same per-session backend tokens.
type RedisStorage struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ Storage = (*RedisStorage)(nil)

type RedisOption func(*RedisStorage)

// WithKeyPrefix namespaces all keys, default "console:client".
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *RedisStorage) {
		r.prefix = prefix
	}
}

// WithItemTTL expires items after ttl; zero keeps them forever.
func WithItemTTL(ttl time.Duration) RedisOption {
	return func(r *RedisStorage) {
		r.ttl = ttl
	}
}

func NewRedisStorage(client redis.UniversalClient, options ...RedisOption) *RedisStorage {
	r := &RedisStorage{
		client: client,
		prefix: "console:client",
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// DialRedis connects and pings, failing fast when Redis is unreachable.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return client, nil
}

func (r *RedisStorage) key(k string) string {
	return r.prefix + ":" + k
}

func (r *RedisStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

func (r *RedisStorage) SetItem(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStorage) RemoveItem(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
