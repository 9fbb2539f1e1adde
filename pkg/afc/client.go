// Package afc is the REST collaborator for the fabric controller: it logs
// in, looks objects up by name and applies mutations.
package afc

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/model"
	"github.com/afc-network/afcctl/pkg/util"
	"github.com/afc-network/afcctl/pkg/version"
)

const (
	apiPrefix      = "/api/v1"
	tokenPath      = "/auth/token"
	defaultTimeout = 30 * time.Second
)

// Config holds the transport settings for controller connections.
type Config struct {
	Timeout   time.Duration
	VerifyTLS bool

	// HTTPClient replaces the client built from Timeout and VerifyTLS.
	HTTPClient *http.Client
}

// Connector opens authenticated controller clients.
type Connector struct {
	http *http.Client
}

// NewConnector builds a connector from cfg.
func NewConnector(cfg Config) *Connector {
	if cfg.HTTPClient != nil {
		return &Connector{http: cfg.HTTPClient}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Connector{http: &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS},
		},
	}}
}

// Connect implements dispatch.Connector.
func (c *Connector) Connect(ctx context.Context, creds dispatch.Credentials) (dispatch.Conn, error) {
	cl, err := c.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return cl, nil
}

// Login performs the handshake. Token credentials are verified against the
// controller; otherwise a new token is issued for the username and password.
func (c *Connector) Login(ctx context.Context, creds dispatch.Credentials) (*Client, error) {
	cl := &Client{
		http:    c.http,
		base:    "https://" + creds.Address + apiPrefix,
		address: creds.Address,
	}
	log := util.WithController(creds.Address)

	if creds.TokenBased() {
		cl.token = creds.Token
		if _, err := cl.do(ctx, http.MethodGet, tokenPath, nil); err != nil {
			return nil, err
		}
		log.Debug("Token accepted")
		return cl, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cl.base+tokenPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Auth-Username", creds.Username)
	req.Header.Set("X-Auth-Password", creds.Password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	body, err := cl.send(req)
	if err != nil {
		return nil, err
	}
	token := gjson.GetBytes(body, "result").String()
	if token == "" {
		return nil, util.NewRemoteError(0, "login response carried no token")
	}
	cl.token = token
	log.WithField("user", creds.Username).Debug("Logged in")
	return cl, nil
}

// Client is an authenticated controller connection.
type Client struct {
	http    *http.Client
	base    string
	address string
	token   string
}

// Token returns the session token in use.
func (c *Client) Token() string {
	return c.token
}

// Lookup implements dispatch.Conn. It lists the collection and matches the
// name exactly.
func (c *Client) Lookup(ctx context.Context, kind model.Kind, name string, scope []string) (string, error) {
	r, err := routeFor(kind)
	if err != nil {
		return "", err
	}
	path, err := r.path(scope)
	if err != nil {
		return "", err
	}
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}

	var id string
	var bad error
	key := r.keyAttr()
	gjson.GetBytes(body, "result").ForEach(func(_, item gjson.Result) bool {
		if item.Get(key).String() != name {
			return true
		}
		raw := item.Get("uuid").String()
		if _, err := uuid.Parse(raw); err != nil {
			bad = util.NewRemoteError(0, fmt.Sprintf("%s '%s' has malformed identifier '%s'", kind.Label(), name, raw))
			return false
		}
		id = raw
		return false
	})
	if bad != nil {
		return "", bad
	}
	util.WithController(c.address).WithField("kind", string(kind)).Debugf("Lookup %s -> %q", name, id)
	return id, nil
}

// Mutate implements dispatch.Conn. A controller rejection is returned as
// an error carrying the controller's message.
func (c *Client) Mutate(ctx context.Context, m dispatch.Mutation) (dispatch.Outcome, error) {
	r, err := routeFor(m.Kind)
	if err != nil {
		return dispatch.Outcome{}, err
	}
	ep, err := r.request(m.Verb, m.Scope, m.ID)
	if err != nil {
		return dispatch.Outcome{}, err
	}
	if _, err := c.do(ctx, ep.method, ep.path, m.Payload); err != nil {
		return dispatch.Outcome{}, err
	}
	msg := strings.TrimSpace(fmt.Sprintf("Successfully %s %s %s", pastTense(m.Verb), m.Kind.Label(), m.Name))
	return dispatch.Succeeded(msg, true), nil
}

// Disconnect implements dispatch.Conn by revoking the session token.
func (c *Client) Disconnect(ctx context.Context) error {
	if c.token == "" {
		return nil
	}
	if _, err := c.do(ctx, http.MethodDelete, tokenPath, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	util.WithController(c.address).Debugf("%s %s", method, path)
	return c.send(req)
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, util.NewRemoteError(resp.StatusCode, errorMessage(resp.StatusCode, body))
	}
	return body, nil
}

// errorMessage extracts the controller's diagnostic from an error body.
func errorMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		for _, path := range []string{"result", "message", "error"} {
			if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.String() != "" {
				return r.String()
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("unexpected status %d", status)
}
