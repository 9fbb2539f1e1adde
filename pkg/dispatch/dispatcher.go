package dispatch

import (
	"context"
	"fmt"

	"github.com/afc-network/afcctl/pkg/util"
)

// Route is a selected handler together with the normalized verb and
// variant it was selected for.
type Route struct {
	Command *Command
	Verb    string
	Variant string
	Handler Handler
}

// Permission is the policy name of the route ("vrf.create").
func (rt Route) Permission() string {
	return rt.Command.Name + "." + rt.Verb
}

// Dispatcher selects exactly one handler per invocation.
type Dispatcher struct {
	Registry *Registry
}

// Route selects the handler for (command, operation[, discriminator value
// in data]). It makes no remote calls.
func (d *Dispatcher) Route(cmd *Command, operation string, data interface{}) (Route, error) {
	verb := cmd.NormalizeVerb(operation)
	if verb == "" || !cmd.HasVerb(verb) {
		return Route{}, util.NewUnsupportedError("Operation", operation)
	}

	variant := ""
	if cmd.Discriminated() {
		m, _ := data.(map[string]interface{})
		raw, present := m[cmd.Schema.Discriminator]
		if !present || raw == nil {
			return Route{}, util.NewValidationError(fmt.Sprintf("missing required parameter '%s'", cmd.Schema.Discriminator))
		}
		name, ok := raw.(string)
		if !ok {
			return Route{}, util.NewValidationError(fmt.Sprintf("'%s' must be a string, got %T", cmd.Schema.Discriminator, raw))
		}
		v, ok := cmd.Schema.Variant(name)
		if !ok || !v.AcceptsVerb(verb) {
			return Route{}, util.NewUnsupportedError(cmd.typeLabel(), name)
		}
		variant = v.Name
	}

	h, ok := d.Registry.handler(cmd.Name, verb, variant)
	if !ok {
		return Route{}, util.NewUnsupportedError("Operation", verb)
	}
	return Route{Command: cmd, Verb: verb, Variant: variant, Handler: h}, nil
}

// Invoke runs the routed handler. A panicking handler yields a failed
// outcome instead of unwinding past this point.
func (d *Dispatcher) Invoke(ctx context.Context, rt Route, conn Conn, data interface{}) (o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			util.WithCommand(rt.Command.Name, rt.Verb).Errorf("Handler panicked: %v", r)
			o = Failedf("Internal error while running %s %s: %v", rt.Command.Name, rt.Verb, r)
		}
	}()

	o = rt.Handler(ctx, &Request{
		Conn:    conn,
		Command: rt.Command,
		Verb:    rt.Verb,
		Variant: rt.Variant,
		Data:    data,
	})
	if !o.Success && o.Message == "" {
		o.Message = genericFailure
	}
	return o
}
