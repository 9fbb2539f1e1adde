package tokencache

import (
	"context"
	"errors"
	"time"

	"github.com/afc-network/afcctl/pkg/util"
)

// Cache stores sealed session tokens keyed by controller address.
type Cache struct {
	store  Store
	sealer *Sealer
	ttl    time.Duration
}

// New creates a cache over store. Tokens expire from the store after ttl.
func New(store Store, sealer *Sealer, ttl time.Duration) *Cache {
	return &Cache{store: store, sealer: sealer, ttl: ttl}
}

// Key returns the store key for a controller address.
func Key(address string) string {
	return KeyPrefix + address
}

// Save seals token and stores it for address.
func (c *Cache) Save(ctx context.Context, address, token string) error {
	sealed, err := c.sealer.Seal(token)
	if err != nil {
		return err
	}
	if err := c.store.Put(ctx, Key(address), sealed, c.ttl); err != nil {
		return err
	}
	util.WithController(address).Debug("Cached session token")
	return nil
}

// Load returns the cached token for address, or "" if none is cached.
// An entry that no longer opens is dropped and reported as a miss.
func (c *Cache) Load(ctx context.Context, address string) (string, error) {
	sealed, err := c.store.Get(ctx, Key(address))
	if err != nil || sealed == "" {
		return "", err
	}
	token, err := c.sealer.Open(sealed)
	if errors.Is(err, ErrSealed) {
		util.WithController(address).Warn("Discarding cached token that could not be opened")
		return "", c.store.Delete(ctx, Key(address))
	}
	return token, err
}

// Forget removes the cached token for address.
func (c *Cache) Forget(ctx context.Context, address string) error {
	return c.store.Delete(ctx, Key(address))
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}
