package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/util"
)

var sessionCache bool

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Issue and revoke controller session tokens",
	Long: `Issue and revoke controller session tokens.

A token issued by 'session login' can be passed to later invocations with
--token (or AFC_TOKEN). afcctl never closes a token session on its own;
'session logout' revokes it.

With --cache the token is sealed and stored in Redis, keyed by controller
address, so later invocations can use --cached-token.

Examples:
  afcctl session login -a 10.1.1.1 -u admin --ask-pass
  afcctl session login --cache
  afcctl session logout --cached-token`,
}

var sessionLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Open a session and print its token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app.cachedToken = false
		creds, err := app.credentials(ctx)
		if err != nil {
			return err
		}
		if creds.TokenBased() {
			return util.NewConfigError("session login requires a username and password")
		}
		if err := creds.Validate(); err != nil {
			return err
		}

		client, err := newConnector(app.settings).Login(ctx, creds.Identity())
		if err != nil {
			return util.NewConnectionError(creds.Address, err)
		}
		token := client.Token()
		util.WithController(creds.Address).Infof("Session opened as %s", creds)

		if sessionCache {
			cache, err := openTokenCache(app.settings)
			if err != nil {
				return err
			}
			defer cache.Close()
			if err := cache.Save(ctx, creds.Address, token); err != nil {
				return fmt.Errorf("caching token: %w", err)
			}
		}

		if app.jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
				"controller": creds.Address,
				"token":      token,
				"cached":     sessionCache,
			})
		}
		fmt.Println(token)
		return nil
	},
}

var sessionLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke a session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		creds, err := app.credentials(ctx)
		if err != nil {
			return err
		}
		if !creds.TokenBased() {
			return util.NewConfigError("session logout requires a token (--token or --cached-token)")
		}

		factory := &dispatch.SessionFactory{Connector: newConnector(app.settings)}
		sess, err := factory.Open(ctx, creds)
		if err != nil {
			return err
		}
		if err := sess.Conn().Disconnect(ctx); err != nil {
			return fmt.Errorf("revoking token: %w", err)
		}

		if app.cachedToken {
			cache, err := openTokenCache(app.settings)
			if err != nil {
				return err
			}
			defer cache.Close()
			if err := cache.Forget(ctx, creds.Address); err != nil {
				return fmt.Errorf("clearing token cache: %w", err)
			}
		}

		return printSignal(os.Stdout, dispatch.ExitSignal{
			Status:  true,
			Changed: true,
			Message: "Session closed on " + creds.Address,
		}, app.jsonOutput)
	},
}

func init() {
	sessionLoginCmd.Flags().BoolVar(&sessionCache, "cache", false, "Store the token in the Redis token cache")
	sessionCmd.AddCommand(sessionLoginCmd, sessionLogoutCmd)
}
