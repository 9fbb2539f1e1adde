package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/afc-network/afcctl/pkg/auth"
	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/payload"
)

var (
	runDataFile string
	runDataText string
)

var runCmd = &cobra.Command{
	Use:   "run <command> [operation]",
	Short: "Run one operation against the controller",
	Long: `Run one operation on a controller object.

The payload names the object and its parents; afcctl looks each name up
and acts on the resolved object. Commands with an implicit verb
(discovery, lag, physical_interface) accept no operation.

Examples:
  afcctl run vrf create -f vrf.yaml
  afcctl run vlan delete --data '{"type":"vlan_group","name":"vg1"}'
  afcctl run lag -f lag.yaml --check`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		operation := ""
		if len(args) > 1 {
			operation = args[1]
		}

		data, err := loadData(runDataFile, runDataText)
		if err != nil {
			return err
		}

		ctx := context.Background()
		creds, err := app.credentials(ctx)
		if err != nil {
			return err
		}

		runner, _, closeAudit, err := newRunner(app.settings)
		if err != nil {
			return err
		}
		defer closeAudit()

		sig := runner.Run(ctx, dispatch.Invocation{
			Command:     args[0],
			Operation:   operation,
			Data:        data,
			Credentials: creds,
			CheckMode:   app.checkMode,
			User:        auth.CurrentUsername(),
		})
		if err := printSignal(os.Stdout, sig, app.jsonOutput); err != nil {
			return err
		}
		if sig.Code != 0 {
			return errFailed
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runDataFile, "file", "f", "", "Payload file, YAML or JSON ('-' for stdin)")
	runCmd.Flags().StringVar(&runDataText, "data", "", "Inline payload, YAML or JSON")
}

// loadData reads the payload from a file or from inline text. At most one
// source may be given; with neither the payload is empty.
func loadData(file, text string) (interface{}, error) {
	switch {
	case file != "" && text != "":
		return nil, fmt.Errorf("--file and --data are mutually exclusive")
	case file != "":
		return payload.LoadFile(file)
	case text != "":
		return payload.Parse([]byte(text))
	}
	return nil, nil
}
