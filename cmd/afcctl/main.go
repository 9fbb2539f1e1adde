// afcctl - Fabric Composer command dispatch
//
// Every object type the controller manages is a command; every change is an
// operation on it. A payload describes the object by name and afcctl
// resolves the names to controller identifiers before acting:
//
//	afcctl run <command> [operation] -f <payload.yaml>
//	       └───┬───┘ └───┬───┘        └──────┬──────┘
//	      Object type   Verb          Named object description
//
// Connection flags (or AFC_* environment variables, or settings):
//
//	-a, --afc-ip    Controller address
//	-u, --username  Username for a session opened and closed per invocation
//	-p, --password  Password (prefer --ask-pass or AFC_PASSWORD)
//	-t, --token     Pre-issued session token; never closed by afcctl
//
// Examples:
//
//	afcctl run vrf create -a 10.1.1.1 -u admin --ask-pass -f vrf.yaml
//	afcctl run vrf_bgp disable --data '{"fabric":"f1","vrf":"blue","as_number":"65001"}'
//	afcctl run discovery -f discover.yaml --cached-token
//	afcctl apply -f tasks.yaml
//	afcctl commands vlan
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/afc-network/afcctl/pkg/cli"
	"github.com/afc-network/afcctl/pkg/settings"
	"github.com/afc-network/afcctl/pkg/util"
	"github.com/afc-network/afcctl/pkg/version"
)

// App holds the global flags and the state loaded before a command runs.
type App struct {
	address     string
	username    string
	password    string
	token       string
	askPass     bool
	cachedToken bool

	checkMode  bool
	jsonOutput bool
	verbose    bool
	logJSON    bool
	noColor    bool

	settings *settings.Settings
}

var app = &App{}

// errFailed reports a failure whose outcome was already printed.
var errFailed = errors.New("invocation failed")

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, cli.Red("Error: ")+err.Error())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "afcctl",
	Short:             "Fabric Composer command dispatch",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `afcctl creates, updates and deletes Fabric Composer objects by name.

Each command is an object type; the operation is the verb applied to it.
Payloads are YAML or JSON documents naming the object and its parents.

  afcctl run <command> [operation] [-f payload.yaml | --data '<json>']`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			s = &settings.Settings{}
		}
		app.settings = s

		level := s.LogLevel
		if level == "" {
			level = "warn"
		}
		if app.verbose {
			level = "debug"
		}
		if err := util.SetLogLevel(level); err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		if app.logJSON {
			util.SetJSONFormat()
		}
		util.Debugf("Settings loaded from %s", settings.DefaultSettingsPath())
		if app.noColor || app.jsonOutput {
			cli.SetColor(false)
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&app.address, "afc-ip", "a", "", "Controller address (env AFC_IP)")
	pf.StringVarP(&app.username, "username", "u", "", "Username (env AFC_USERNAME)")
	pf.StringVarP(&app.password, "password", "p", "", "Password (env AFC_PASSWORD)")
	pf.StringVarP(&app.token, "token", "t", "", "Session token (env AFC_TOKEN)")
	pf.BoolVar(&app.askPass, "ask-pass", false, "Prompt for the password")
	pf.BoolVar(&app.cachedToken, "cached-token", false, "Use the session token cached by 'session login --cache'")
	pf.BoolVar(&app.checkMode, "check", false, "Validate without contacting the controller")
	pf.BoolVar(&app.jsonOutput, "json", false, "JSON output")
	pf.BoolVarP(&app.verbose, "verbose", "v", false, "Verbose output")
	pf.BoolVar(&app.logJSON, "log-json", false, "JSON log format")
	pf.BoolVar(&app.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "dispatch", Title: "Controller Operations:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)

	for _, cmd := range []*cobra.Command{runCmd, applyCmd, sessionCmd} {
		cmd.GroupID = "dispatch"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{commandsCmd, settingsCmd, auditCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if version.Version == "dev" {
			fmt.Println("afcctl dev build")
		} else {
			fmt.Printf("afcctl %s\n", version.Info())
		}
	},
}
