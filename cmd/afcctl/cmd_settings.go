package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/afc-network/afcctl/pkg/auth"
	"github.com/afc-network/afcctl/pkg/cli"
	"github.com/afc-network/afcctl/pkg/settings"
	"github.com/afc-network/afcctl/pkg/util"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage persistent settings",
	Long: `Manage persistent settings stored in ~/.afcctl/settings.yaml
(or the file named by AFC_SETTINGS).

Settings provide defaults for connection flags. AFC_* environment
variables override the file; flags override both. Passwords and tokens
are read from the environment only and never saved.

Examples:
  afcctl settings show
  afcctl settings set afc_ip 10.1.1.1
  afcctl settings set redis.addr 127.0.0.1:6379
  afcctl settings clear`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.settings
		fmt.Printf("Settings file: %s\n\n", settings.DefaultSettingsPath())

		t := cli.NewTable("SETTING", "VALUE")
		for _, key := range settings.Keys() {
			value, err := s.Get(key)
			if err != nil {
				return err
			}
			if value == "" {
				value = "(not set)"
			}
			t.Row(key, value)
		}
		t.Row("password", secretState(s.Password))
		t.Row("token", secretState(s.Token))
		t.Row("redis.seal_key", secretState(s.Redis.SealKey))
		t.Flush()

		checker := auth.NewChecker(&s.Permissions)
		user := checker.CurrentUser()
		fmt.Printf("\nPermissions for %s:", user)
		if groups := checker.GetUserGroups(user); len(groups) > 0 {
			fmt.Printf(" (groups: %s)", strings.Join(groups, ", "))
		}
		fmt.Println()
		for _, p := range checker.ListPermissionsForUser(user) {
			fmt.Printf("  %s\n", p)
		}
		return nil
	},
}

func secretState(v string) string {
	if v == "" {
		return "(not set)"
	}
	return util.Redact(v) + " (from environment)"
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Set a setting value",
	Long: fmt.Sprintf(`Set a persistent setting value.

Available settings:
  %s

Examples:
  afcctl settings set afc_ip 10.1.1.1
  afcctl settings set timeout 45s
  afcctl settings set audit.max_backups 10`, strings.Join(settings.Keys(), "\n  ")),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.settings
		if err := s.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Printf("%s set to: %s\n", args[0], args[1])
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <setting>",
	Short: "Get a setting value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := app.settings.Get(args[0])
		if err != nil {
			return err
		}
		if value == "" {
			fmt.Println("(not set)")
		} else {
			fmt.Println(value)
		}
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := &settings.Settings{}
		s.Clear()
		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Println("Settings cleared.")
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show settings file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(settings.DefaultSettingsPath())
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsGetCmd, settingsClearCmd, settingsPathCmd)
}
