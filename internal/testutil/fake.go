// Package testutil provides test helpers: a recording fake controller
// connection, and Redis helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/model"
)

// LookupCall records one Lookup on a FakeConn.
type LookupCall struct {
	Kind  model.Kind
	Name  string
	Scope []string
}

// FakeConnector hands out a FakeConn and records every handshake.
type FakeConnector struct {
	Conn *FakeConn
	Err  error

	mu       sync.Mutex
	Connects []dispatch.Credentials
}

// NewFakeConnector returns a connector over a fresh FakeConn.
func NewFakeConnector() *FakeConnector {
	return &FakeConnector{Conn: NewFakeConn()}
}

// Connect records creds and returns the fake connection or Err.
func (f *FakeConnector) Connect(ctx context.Context, creds dispatch.Credentials) (dispatch.Conn, error) {
	f.mu.Lock()
	f.Connects = append(f.Connects, creds)
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Conn, nil
}

// FakeConn is an in-memory controller. Objects are keyed by kind, scope and
// name; every call is recorded.
type FakeConn struct {
	mu      sync.Mutex
	objects map[string]string

	Lookups     []LookupCall
	Mutations   []dispatch.Mutation
	Disconnects int

	LookupErr     error
	MutateErr     error
	MutateOutcome *dispatch.Outcome
	DisconnectErr error
	PanicOnMutate bool
}

// NewFakeConn returns an empty fake controller.
func NewFakeConn() *FakeConn {
	return &FakeConn{objects: make(map[string]string)}
}

func objectKey(kind model.Kind, name string, scope []string) string {
	return string(kind) + "|" + strings.Join(scope, "/") + "|" + name
}

// Add seeds an object with identifier id inside scope.
func (c *FakeConn) Add(kind model.Kind, name, id string, scope ...string) *FakeConn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects[objectKey(kind, name, scope)] = id
	return c
}

// Lookup implements dispatch.Conn.
func (c *FakeConn) Lookup(ctx context.Context, kind model.Kind, name string, scope []string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Lookups = append(c.Lookups, LookupCall{Kind: kind, Name: name, Scope: append([]string(nil), scope...)})
	if c.LookupErr != nil {
		return "", c.LookupErr
	}
	return c.objects[objectKey(kind, name, scope)], nil
}

// Mutate implements dispatch.Conn.
func (c *FakeConn) Mutate(ctx context.Context, m dispatch.Mutation) (dispatch.Outcome, error) {
	c.mu.Lock()
	c.Mutations = append(c.Mutations, m)
	c.mu.Unlock()

	if c.PanicOnMutate {
		panic("fake controller exploded")
	}
	if c.MutateErr != nil {
		return dispatch.Outcome{}, c.MutateErr
	}
	if c.MutateOutcome != nil {
		return *c.MutateOutcome, nil
	}
	return dispatch.Succeeded(fmt.Sprintf("%s %s %s", m.Verb, m.Kind.Label(), m.Name), true), nil
}

// Disconnect implements dispatch.Conn.
func (c *FakeConn) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Disconnects++
	return c.DisconnectErr
}

// LookedUp reports whether any lookup for kind was made.
func (c *FakeConn) LookedUp(kind model.Kind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.Lookups {
		if l.Kind == kind {
			return true
		}
	}
	return false
}
