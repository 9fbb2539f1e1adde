//go:build integration

package tokencache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/afc-network/afcctl/internal/testutil"
)

const testDB = 15

func TestRedisStore_CacheRoundTrip(t *testing.T) {
	testutil.SkipIfNoRedis(t)
	addr := testutil.RedisAddr()
	testutil.FlushDB(t, addr, testDB)

	ctx := context.Background()
	store := NewRedisStore(addr, testDB, "")
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	s, _ := NewSealer("integration-secret")
	c := New(store, s, time.Minute)
	defer c.Close()

	if err := c.Save(ctx, "192.0.2.10", "tok-integration"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw := testutil.ReadKey(t, addr, testDB, Key("192.0.2.10"))
	if raw == "" || strings.Contains(raw, "tok-integration") {
		t.Fatalf("raw value %q should be sealed", raw)
	}
	if !testutil.KeyTTLSet(t, addr, testDB, Key("192.0.2.10")) {
		t.Error("cached token should expire")
	}

	got, err := c.Load(ctx, "192.0.2.10")
	if err != nil || got != "tok-integration" {
		t.Fatalf("Load = %q, %v", got, err)
	}

	if err := c.Forget(ctx, "192.0.2.10"); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if raw := testutil.ReadKey(t, addr, testDB, Key("192.0.2.10")); raw != "" {
		t.Errorf("key still present after Forget: %q", raw)
	}
}

func TestRedisStore_GetMissing(t *testing.T) {
	testutil.SkipIfNoRedis(t)
	addr := testutil.RedisAddr()
	testutil.FlushDB(t, addr, testDB)

	store := NewRedisStore(addr, testDB, "")
	defer store.Close()

	got, err := store.Get(context.Background(), Key("absent"))
	if err != nil || got != "" {
		t.Errorf("Get = %q, %v; want empty", got, err)
	}
}
