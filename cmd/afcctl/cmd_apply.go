package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/afc-network/afcctl/pkg/audit"
	"github.com/afc-network/afcctl/pkg/auth"
	"github.com/afc-network/afcctl/pkg/cli"
	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/payload"
	"github.com/afc-network/afcctl/pkg/util"
)

var (
	applyFile        string
	applyStopOnError bool
)

var applyCmd = &cobra.Command{
	Use:   "apply -f <tasks.yaml>",
	Short: "Run a list of tasks in order",
	Long: `Run a list of tasks in order. Each task is a full invocation with its
own session, so one task's failure never leaves another's session open.

Task file:
  tasks:
    - name: tenant vrf
      command: vrf
      operation: create
      data: {name: blue, fabric: dc1}
    - command: vrf_bgp
      operation: enable
      data: {fabric: dc1, vrf: blue, as_number: "65001"}

Examples:
  afcctl apply -f tasks.yaml
  afcctl apply -f tasks.yaml --stop-on-error=false --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if applyFile == "" {
			return fmt.Errorf("--file is required")
		}
		tasks, err := payload.LoadTasks(applyFile)
		if err != nil {
			return err
		}

		ctx := context.Background()
		creds, err := app.credentials(ctx)
		if err != nil {
			return err
		}

		runner, recorder, closeAudit, err := newRunner(app.settings)
		if err != nil {
			return err
		}
		defer closeAudit()

		results := runTasks(ctx, runner, recorder, tasks, creds, applyStopOnError)

		if app.jsonOutput {
			if err := json.NewEncoder(os.Stdout).Encode(results); err != nil {
				return err
			}
		} else {
			printTaskResults(os.Stdout, results, len(tasks))
		}

		for _, r := range results {
			if !r.Status {
				return errFailed
			}
		}
		return nil
	},
}

func init() {
	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "Task file, YAML or JSON ('-' for stdin)")
	applyCmd.Flags().BoolVar(&applyStopOnError, "stop-on-error", true, "Stop at the first failed task")
}

// taskResult is the outcome of one task in an apply run.
type taskResult struct {
	Task      string `json:"task"`
	Command   string `json:"command"`
	Operation string `json:"operation,omitempty"`
	Message   string `json:"message"`
	Status    bool   `json:"status"`
	Changed   bool   `json:"changed"`
}

// runTasks runs tasks sequentially with shared credentials. Each audit
// event is stamped with the task label.
func runTasks(ctx context.Context, runner *dispatch.Runner, recorder *audit.Recorder, tasks []payload.Task, creds dispatch.Credentials, stopOnError bool) []taskResult {
	user := auth.CurrentUsername()
	results := make([]taskResult, 0, len(tasks))
	for _, t := range tasks {
		if recorder != nil {
			recorder.Task = t.Label()
		}
		util.WithField("task", t.Label()).Debugf("Running %s %s", t.Command, t.Operation)
		sig := runner.Run(ctx, dispatch.Invocation{
			Command:     t.Command,
			Operation:   t.Operation,
			Data:        t.Data,
			Credentials: creds,
			CheckMode:   app.checkMode,
			User:        user,
		})
		results = append(results, taskResult{
			Task:      t.Label(),
			Command:   t.Command,
			Operation: t.Operation,
			Message:   sig.Message,
			Status:    sig.Status,
			Changed:   sig.Changed,
		})
		if !sig.Status && stopOnError {
			break
		}
	}
	return results
}

func printTaskResults(w io.Writer, results []taskResult, total int) {
	t := cli.NewTableTo(w, "TASK", "STATUS", "MESSAGE")
	var changed, failed int
	for _, r := range results {
		t.Row(r.Task, cli.Status(r.Status, r.Changed), cli.Truncate(r.Message, 80))
		if !r.Status {
			failed++
		} else if r.Changed {
			changed++
		}
	}
	t.Flush()

	skipped := total - len(results)
	fmt.Fprintf(w, "\n%d tasks: %d changed, %d failed, %d skipped\n", total, changed, failed, skipped)
}
