package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/afc-network/afcctl/pkg/audit"
	"github.com/afc-network/afcctl/pkg/cli"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View audit logs",
	Long: `View the audit log of controller invocations.

Every run and apply task is logged with:
  - Timestamp
  - Local user and controller address
  - Command, operation and target object
  - Success/changed status and message

Examples:
  afcctl audit list --controller 10.1.1.1
  afcctl audit list --last 24h
  afcctl audit list --command vrf --failures`,
}

var (
	auditController string
	auditUser       string
	auditCommand    string
	auditLast       string
	auditLimit      int
	auditFailures   bool
)

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit events",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := audit.Filter{
			Controller:  auditController,
			User:        auditUser,
			Command:     auditCommand,
			Limit:       auditLimit,
			FailureOnly: auditFailures,
		}

		if auditLast != "" {
			duration, err := time.ParseDuration(auditLast)
			if err != nil {
				return fmt.Errorf("invalid duration: %s", auditLast)
			}
			filter.StartTime = time.Now().Add(-duration)
		}

		logger, err := audit.NewFileLogger(app.settings.AuditPath(), audit.RotationConfig{})
		if err != nil {
			return err
		}
		defer logger.Close()

		events, err := logger.Query(filter)
		if err != nil {
			return fmt.Errorf("querying audit log: %w", err)
		}

		if app.jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(events)
		}

		if len(events) == 0 {
			fmt.Println("No audit events found")
			return nil
		}

		t := cli.NewTable("TIMESTAMP", "USER", "CONTROLLER", "COMMAND", "TARGET", "STATUS", "MESSAGE")
		for _, event := range events {
			status := cli.Status(event.Success, event.Changed)
			if event.CheckMode {
				status = cli.Yellow("check")
			}
			op := event.Command
			if event.Operation != "" {
				op += " " + event.Operation
			}
			t.Row(
				event.Timestamp.Format("2006-01-02 15:04:05"),
				event.User,
				event.Controller,
				op,
				event.Target,
				status,
				cli.Truncate(event.Message, 60),
			)
		}
		t.Flush()
		return nil
	},
}

func init() {
	auditListCmd.Flags().StringVar(&auditController, "controller", "", "Filter by controller address")
	auditListCmd.Flags().StringVar(&auditUser, "user", "", "Filter by user")
	auditListCmd.Flags().StringVar(&auditCommand, "command", "", "Filter by command")
	auditListCmd.Flags().StringVar(&auditLast, "last", "", "Show events from last duration (e.g., 24h)")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 100, "Maximum events to show")
	auditListCmd.Flags().BoolVar(&auditFailures, "failures", false, "Show only failed operations")

	auditCmd.AddCommand(auditListCmd)
}
