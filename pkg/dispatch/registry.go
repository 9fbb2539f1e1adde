package dispatch

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Handler performs one (command, verb[, variant]) operation. It resolves
// what it needs through req and issues at most one mutation.
type Handler func(ctx context.Context, req *Request) Outcome

// Command is one object type the dispatcher can operate on.
type Command struct {
	Name        string
	Description string
	Verbs       []string

	// ImplicitVerb is used when the caller gives no operation.
	ImplicitVerb string

	// TypeLabel prefixes the message for an unknown discriminator value
	// ("Route Policy type"). Defaults to "Type".
	TypeLabel string

	Schema Schema
}

// NormalizeVerb maps an empty operation to the implicit verb.
func (c *Command) NormalizeVerb(op string) string {
	op = strings.TrimSpace(op)
	if op == "" {
		return c.ImplicitVerb
	}
	return op
}

// HasVerb reports whether verb is declared for the command.
func (c *Command) HasVerb(verb string) bool {
	for _, v := range c.Verbs {
		if v == verb {
			return true
		}
	}
	return false
}

// Discriminated reports whether the command selects handlers by variant.
func (c *Command) Discriminated() bool {
	return c.Schema.Discriminator != ""
}

func (c *Command) typeLabel() string {
	if c.TypeLabel == "" {
		return "Type"
	}
	return c.TypeLabel
}

type handlerKey struct {
	command string
	verb    string
	variant string
}

func (k handlerKey) String() string {
	if k.variant == "" {
		return k.command + "." + k.verb
	}
	return k.command + "." + k.verb + "[" + k.variant + "]"
}

// Registry holds the command table and its handlers.
type Registry struct {
	commands map[string]*Command
	handlers map[handlerKey]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		handlers: make(map[handlerKey]Handler),
	}
}

// Add declares a command.
func (r *Registry) Add(c Command) error {
	if c.Name == "" {
		return fmt.Errorf("command name is required")
	}
	if _, dup := r.commands[c.Name]; dup {
		return fmt.Errorf("command '%s' declared twice", c.Name)
	}
	cmd := c
	r.commands[c.Name] = &cmd
	return nil
}

// Handle binds a handler. variant is "" for commands without a
// discriminator.
func (r *Registry) Handle(command, verb, variant string, h Handler) error {
	key := handlerKey{command, verb, variant}
	if _, dup := r.handlers[key]; dup {
		return fmt.Errorf("handler %s bound twice", key)
	}
	r.handlers[key] = h
	return nil
}

// Lookup returns the command named name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Commands returns all commands sorted by name.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) handler(command, verb, variant string) (Handler, bool) {
	h, ok := r.handlers[handlerKey{command, verb, variant}]
	return h, ok
}

// Check verifies the table is exhaustive and closed: every declared verb
// (and, for discriminated commands, every verb a variant accepts) has a
// handler, and no handler is bound to anything undeclared.
func (r *Registry) Check() error {
	var problems []string
	expected := make(map[handlerKey]bool)

	for _, c := range r.Commands() {
		if len(c.Verbs) == 0 {
			problems = append(problems, fmt.Sprintf("command '%s' declares no verbs", c.Name))
		}
		if c.ImplicitVerb != "" && !c.HasVerb(c.ImplicitVerb) {
			problems = append(problems, fmt.Sprintf("command '%s' implicit verb '%s' is not declared", c.Name, c.ImplicitVerb))
		}
		if !c.Discriminated() {
			for _, verb := range c.Verbs {
				expected[handlerKey{c.Name, verb, ""}] = true
			}
			continue
		}
		for _, verb := range c.Verbs {
			accepted := false
			for _, v := range c.Schema.Variants {
				accepted = accepted || v.AcceptsVerb(verb)
			}
			if !accepted {
				problems = append(problems, fmt.Sprintf("command '%s' verb '%s' accepts no variant", c.Name, verb))
			}
		}
		for _, v := range c.Schema.Variants {
			for _, verb := range v.Verbs {
				if !c.HasVerb(verb) {
					problems = append(problems, fmt.Sprintf("command '%s' variant '%s' uses undeclared verb '%s'", c.Name, v.Name, verb))
					continue
				}
				expected[handlerKey{c.Name, verb, v.Name}] = true
			}
		}
	}

	for key := range expected {
		if _, ok := r.handlers[key]; !ok {
			problems = append(problems, fmt.Sprintf("no handler for %s", key))
		}
	}
	for key := range r.handlers {
		if !expected[key] {
			problems = append(problems, fmt.Sprintf("handler %s is not declared", key))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("command table is inconsistent:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
