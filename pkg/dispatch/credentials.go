package dispatch

import (
	"fmt"

	"github.com/afc-network/afcctl/pkg/util"
)

// Credentials identify the caller to the controller for one invocation.
// A non-empty Token makes the credentials token-shaped: Username and
// Password are then ignored and never transmitted.
type Credentials struct {
	Address  string
	Username string
	Password string
	Token    string
}

// TokenBased reports whether the credentials authenticate with a
// pre-issued session token.
func (c Credentials) TokenBased() bool {
	return c.Token != ""
}

// Validate checks the credential shape before any network activity.
func (c Credentials) Validate() error {
	if c.Address == "" {
		return util.NewConfigError("controller address is required")
	}
	if c.TokenBased() {
		return nil
	}
	switch {
	case c.Username == "" && c.Password == "":
		return util.NewConfigError("either a token or a username and password are required")
	case c.Username == "":
		return util.NewConfigError("password given without username")
	case c.Password == "":
		return util.NewConfigError("username given without password")
	}
	return nil
}

// Identity returns the credentials that may be sent on the wire. For
// token-shaped credentials the username and password are dropped.
func (c Credentials) Identity() Credentials {
	if c.TokenBased() {
		return Credentials{Address: c.Address, Token: c.Token}
	}
	return Credentials{Address: c.Address, Username: c.Username, Password: c.Password}
}

// String never includes secrets.
func (c Credentials) String() string {
	if c.TokenBased() {
		return fmt.Sprintf("token@%s", c.Address)
	}
	return fmt.Sprintf("%s@%s", c.Username, c.Address)
}
