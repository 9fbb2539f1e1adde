package tokencache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// KeyPrefix namespaces cached tokens in the shared Redis keyspace.
const KeyPrefix = "afcctl:token:"

// Store is the persistence behind a Cache. Values are opaque strings.
type Store interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// RedisStore keeps values in a Redis database.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store for the Redis server at addr.
func NewRedisStore(addr string, db int, password string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			DB:       db,
			Password: password,
		}),
	}
}

// Ping tests the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Put stores value under key. A zero ttl stores it without expiry.
func (s *RedisStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Get returns the value under key, or "" if there is none.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return val, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Close closes the connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
