package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/afc-network/afcctl/pkg/cli"
	"github.com/afc-network/afcctl/pkg/commands"
	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/util"
)

var commandsCmd = &cobra.Command{
	Use:   "commands [name]",
	Short: "List commands, verbs and payload fields",
	Long: `List the object types afcctl can operate on.

With a name, show the command's verbs, discriminator choices and payload
fields.

Examples:
  afcctl commands
  afcctl commands route_policy
  afcctl commands vrf --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := commands.NewRegistry()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			all := registry.Commands()
			if app.jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(catalogue(all))
			}
			t := cli.NewTable("COMMAND", "VERBS", "DESCRIPTION")
			for _, c := range all {
				t.Row(c.Name, verbList(c), c.Description)
			}
			t.Flush()
			return nil
		}

		c, ok := registry.Lookup(args[0])
		if !ok {
			return util.NewUnsupportedError("Command", args[0])
		}
		if app.jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(catalogue([]*dispatch.Command{c})[0])
		}
		describeCommand(os.Stdout, c)
		return nil
	},
}

// commandInfo is the JSON form of a registered command.
type commandInfo struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Verbs        []string        `json:"verbs"`
	ImplicitVerb string          `json:"implicit_verb,omitempty"`
	Schema       dispatch.Schema `json:"schema"`
}

func catalogue(cmds []*dispatch.Command) []commandInfo {
	out := make([]commandInfo, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, commandInfo{
			Name:         c.Name,
			Description:  c.Description,
			Verbs:        c.Verbs,
			ImplicitVerb: c.ImplicitVerb,
			Schema:       c.Schema,
		})
	}
	return out
}

func verbList(c *dispatch.Command) string {
	verbs := strings.Join(c.Verbs, ", ")
	if c.ImplicitVerb != "" {
		verbs += " (implicit)"
	}
	return verbs
}

func describeCommand(w io.Writer, c *dispatch.Command) {
	fmt.Fprintf(w, "%s - %s\n\n", cli.Bold(c.Name), c.Description)
	fmt.Fprintf(w, "Verbs: %s\n", verbList(c))

	if c.Schema.List {
		fmt.Fprintln(w, "Payload: a list of entries")
	}
	if len(c.Schema.Fields) > 0 {
		fmt.Fprintln(w, "\nFields:")
		writeFields(w, c.Schema.Fields, "  ")
	}
	if c.Discriminated() {
		fmt.Fprintf(w, "\nVariants (%s):\n", c.Schema.Discriminator)
		for _, v := range c.Schema.Variants {
			name := v.Name
			if len(v.Aliases) > 0 {
				name += " (alias " + strings.Join(v.Aliases, ", ") + ")"
			}
			fmt.Fprintf(w, "  %s  [%s]\n", name, strings.Join(v.Verbs, ", "))
			writeFields(w, v.Fields, "    ")
		}
	}
}

func writeFields(w io.Writer, fields []dispatch.Field, prefix string) {
	t := cli.NewTableTo(w, "FIELD", "TYPE", "NOTES").WithPrefix(prefix)
	for _, f := range fields {
		t.Row(f.Name, fieldType(f), fieldNotes(f))
	}
	t.Flush()
	for _, f := range fields {
		if len(f.Fields) > 0 {
			fmt.Fprintf(w, "%s%s:\n", prefix, f.Name)
			writeFields(w, f.Fields, prefix+"  ")
		}
	}
}

func fieldType(f dispatch.Field) string {
	if f.Type == dispatch.TypeList && f.Elem != "" {
		return fmt.Sprintf("list[%s]", f.Elem)
	}
	return string(f.Type)
}

func fieldNotes(f dispatch.Field) string {
	var notes []string
	if f.Mandatory {
		if len(f.RequiredVerb) > 0 {
			notes = append(notes, "required for "+strings.Join(f.RequiredVerb, "|"))
		} else {
			notes = append(notes, "required")
		}
	}
	if len(f.Choices) > 0 {
		notes = append(notes, "one of "+strings.Join(f.Choices, "|"))
	}
	if f.DefaultValue != nil {
		notes = append(notes, fmt.Sprintf("default %v", f.DefaultValue))
	}
	return strings.Join(notes, ", ")
}
