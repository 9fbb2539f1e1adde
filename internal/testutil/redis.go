//go:build integration

package testutil

import (
	"context"
	"testing"

	"github.com/go-redis/redis/v8"
)

// FlushDB flushes a specific Redis database.
func FlushDB(t *testing.T, addr string, db int) {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	defer client.Close()

	if err := client.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("flushing DB %d: %v", db, err)
	}
}

// ReadKey returns the raw string stored at key, or "" if absent.
func ReadKey(t *testing.T, addr string, db int, key string) string {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	defer client.Close()

	val, err := client.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return ""
	}
	if err != nil {
		t.Fatalf("reading %s: %v", key, err)
	}
	return val
}

// KeyTTLSet reports whether key carries an expiry.
func KeyTTLSet(t *testing.T, addr string, db int, key string) bool {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	defer client.Close()

	ttl, err := client.TTL(context.Background(), key).Result()
	if err != nil {
		t.Fatalf("reading TTL of %s: %v", key, err)
	}
	return ttl > 0
}
