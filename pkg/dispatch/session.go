package dispatch

import (
	"context"

	"github.com/afc-network/afcctl/pkg/model"
	"github.com/afc-network/afcctl/pkg/util"
)

// Connector performs the controller handshake.
type Connector interface {
	Connect(ctx context.Context, creds Credentials) (Conn, error)
}

// Conn is an authenticated controller connection.
//
// Lookup returns the identifier of the object of the given kind and exact
// name inside scope, or "" when no such object exists. Scope lists the
// identifiers of the resolved ancestors, outermost first.
type Conn interface {
	Lookup(ctx context.Context, kind model.Kind, name string, scope []string) (string, error)
	Mutate(ctx context.Context, m Mutation) (Outcome, error)
	Disconnect(ctx context.Context) error
}

// Mutation is one state-changing request against the controller.
type Mutation struct {
	Verb    string
	Kind    model.Kind
	Scope   []string
	ID      string
	Name    string
	Payload interface{}
}

// Session owns one controller connection for the life of an invocation.
type Session struct {
	conn       Conn
	identity   Credentials
	tokenBased bool
	released   bool

	Connected bool
}

// Conn returns the underlying connection.
func (s *Session) Conn() Conn {
	return s.conn
}

// TokenBased reports whether the session was opened with a token.
func (s *Session) TokenBased() bool {
	return s.tokenBased
}

// Identity returns the credentials the session presented to the controller.
func (s *Session) Identity() Credentials {
	return s.identity
}

// Release disconnects a username/password session. It is a no-op for token
// sessions, whose lifetime belongs to whoever issued the token, and for a
// session that was already released.
func (s *Session) Release(ctx context.Context) error {
	if s == nil || s.tokenBased || s.released || !s.Connected {
		return nil
	}
	s.released = true
	s.Connected = false
	return s.conn.Disconnect(ctx)
}

// SessionFactory opens sessions through a Connector.
type SessionFactory struct {
	Connector Connector
}

// Open validates creds and performs exactly one handshake. It never returns
// a partially connected session.
func (f *SessionFactory) Open(ctx context.Context, creds Credentials) (*Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	identity := creds.Identity()

	util.WithController(creds.Address).Debugf("Opening session as %s", identity)
	conn, err := f.Connector.Connect(ctx, identity)
	if err != nil {
		return nil, util.NewConnectionError(creds.Address, err)
	}
	if conn == nil {
		return nil, util.NewConnectionError(creds.Address, nil)
	}

	return &Session{
		conn:       conn,
		identity:   identity,
		tokenBased: identity.TokenBased(),
		Connected:  true,
	}, nil
}
