package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/afc-network/afcctl/pkg/afc"
	"github.com/afc-network/afcctl/pkg/audit"
	"github.com/afc-network/afcctl/pkg/auth"
	"github.com/afc-network/afcctl/pkg/cli"
	"github.com/afc-network/afcctl/pkg/commands"
	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/settings"
	"github.com/afc-network/afcctl/pkg/tokencache"
	"github.com/afc-network/afcctl/pkg/util"
)

// connectionFlags are the connection values given on the command line.
type connectionFlags struct {
	address  string
	username string
	password string
	token    string
}

// resolveCredentials merges flags over settings. Settings already carry
// the AFC_* environment overrides. Explicit username or password flags
// select a username/password session even when a token is configured.
func resolveCredentials(f connectionFlags, s *settings.Settings) dispatch.Credentials {
	creds := dispatch.Credentials{
		Address:  s.Address,
		Username: s.Username,
		Password: s.Password,
		Token:    s.Token,
	}
	if f.address != "" {
		creds.Address = f.address
	}
	if f.username != "" || f.password != "" {
		creds.Token = ""
	}
	if f.username != "" {
		creds.Username = f.username
	}
	if f.password != "" {
		creds.Password = f.password
	}
	if f.token != "" {
		creds.Token = f.token
	}
	return creds
}

// credentials builds the credentials for this invocation, prompting for a
// password or reading the cached token when asked to.
func (a *App) credentials(ctx context.Context) (dispatch.Credentials, error) {
	creds := resolveCredentials(connectionFlags{
		address:  a.address,
		username: a.username,
		password: a.password,
		token:    a.token,
	}, a.settings)

	if a.cachedToken {
		if creds.Address == "" {
			return creds, util.NewConfigError("controller address is required")
		}
		cache, err := openTokenCache(a.settings)
		if err != nil {
			return creds, err
		}
		defer cache.Close()
		token, err := cache.Load(ctx, creds.Address)
		if err != nil {
			return creds, fmt.Errorf("reading token cache: %w", err)
		}
		if token == "" {
			return creds, util.NewConfigError("no cached token for %s: run 'afcctl session login --cache'", creds.Address)
		}
		creds.Token = token
		return creds, nil
	}

	if a.askPass && !creds.TokenBased() {
		pw, err := readPassword(os.Stderr, creds)
		if err != nil {
			return creds, err
		}
		creds.Password = pw
	}
	return creds, nil
}

// readPassword prompts on w and reads a password from the terminal.
func readPassword(w io.Writer, creds dispatch.Credentials) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", util.NewConfigError("--ask-pass requires a terminal")
	}
	fmt.Fprintf(w, "Password for %s: ", creds)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}

func newConnector(s *settings.Settings) *afc.Connector {
	return afc.NewConnector(afc.Config{
		Timeout:   s.Timeout,
		VerifyTLS: s.VerifyTLS,
	})
}

// newRunner wires the registry, the controller connector, the permission
// policy and the audit log. The returned closer releases the audit file.
func newRunner(s *settings.Settings) (*dispatch.Runner, *audit.Recorder, func(), error) {
	registry, err := commands.NewRegistry()
	if err != nil {
		return nil, nil, nil, err
	}

	checker := auth.NewChecker(&s.Permissions)
	recorder := &audit.Recorder{}
	closer := func() {}

	if !s.Audit.Disabled {
		logger, err := audit.NewFileLogger(s.AuditPath(), audit.RotationConfig{
			MaxSize:    s.Audit.MaxSizeMB * 1024 * 1024,
			MaxBackups: s.Audit.MaxBackups,
		})
		if err != nil {
			util.Warnf("Could not initialize audit logging: %v", err)
		} else {
			recorder.Logger = logger
			closer = func() { logger.Close() }
		}
	}

	runner := &dispatch.Runner{
		Registry:   registry,
		Sessions:   &dispatch.SessionFactory{Connector: newConnector(s)},
		Authorizer: checker,
		Recorder:   recorder,
	}
	return runner, recorder, closer, nil
}

// openTokenCache connects to the Redis token cache named in settings.
func openTokenCache(s *settings.Settings) (*tokencache.Cache, error) {
	if s.Redis.Addr == "" {
		return nil, util.NewConfigError("token cache requires redis.addr (env AFC_REDIS_ADDR)")
	}
	sealer, err := tokencache.NewSealer(s.Redis.SealKey)
	if err != nil {
		return nil, util.NewConfigError("token cache requires AFC_TOKEN_CACHE_KEY")
	}
	store := tokencache.NewRedisStore(s.Redis.Addr, s.Redis.DB, s.Redis.Password)
	return tokencache.New(store, sealer, s.Redis.TTL), nil
}

// printSignal writes an invocation result as a status line or JSON.
func printSignal(w io.Writer, sig dispatch.ExitSignal, jsonOutput bool) error {
	if jsonOutput {
		return json.NewEncoder(w).Encode(sig)
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", cli.Status(sig.Status, sig.Changed), sig.Message)
	return err
}
