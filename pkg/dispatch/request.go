package dispatch

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/afc-network/afcctl/pkg/model"
)

// Request is what a handler sees: the open connection and the validated
// payload of one invocation.
type Request struct {
	Conn    Conn
	Command *Command
	Verb    string
	Variant string
	Data    interface{}
}

// Decode copies the validated payload into a typed view.
func (r *Request) Decode(out interface{}) error {
	if err := mapstructure.Decode(r.Data, out); err != nil {
		return fmt.Errorf("decoding %s payload: %w", r.Command.Name, err)
	}
	return nil
}

// Body returns the payload to send to the controller: a copy of the
// validated object without the routing keys in drop. List payloads are
// returned unchanged.
func (r *Request) Body(drop ...string) interface{} {
	m, ok := r.Data.(map[string]interface{})
	if !ok {
		return r.Data
	}
	skip := make(map[string]bool, len(drop))
	for _, k := range drop {
		skip[k] = true
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if !skip[k] {
			out[k] = v
		}
	}
	return out
}

// Resolve resolves path over the request's connection.
func (r *Request) Resolve(ctx context.Context, path Path) (ResolvedPath, error) {
	return Resolve(ctx, r.Conn, path)
}

// Mutate issues exactly one mutation. A collaborator error becomes a failed
// outcome carrying the error text.
func (r *Request) Mutate(ctx context.Context, m Mutation) Outcome {
	o, err := r.Conn.Mutate(ctx, m)
	if err != nil {
		return Failed(err.Error())
	}
	if !o.Success {
		o.Changed = false
		if o.Message == "" {
			o.Message = genericFailure
		}
	}
	return o
}

// CreateIfAbsent creates the named object inside parent unless an object of
// that kind and name already exists there.
func (r *Request) CreateIfAbsent(ctx context.Context, parent ResolvedPath, kind model.Kind, name string, payload interface{}) Outcome {
	id, err := r.Conn.Lookup(ctx, kind, name, parent.Scope())
	if err != nil {
		return FromError(fmt.Errorf("looking up %s '%s': %w", kind.Label(), name, err))
	}
	if id != "" {
		return NoAction(kind.Label() + " already exists")
	}
	return r.Mutate(ctx, Mutation{
		Verb:    r.Verb,
		Kind:    kind,
		Scope:   parent.Scope(),
		Name:    name,
		Payload: payload,
	})
}

// DeleteIfExists deletes the named object inside parent. An absent target
// fails without a mutation.
func (r *Request) DeleteIfExists(ctx context.Context, parent ResolvedPath, kind model.Kind, name string) Outcome {
	id, err := r.Conn.Lookup(ctx, kind, name, parent.Scope())
	if err != nil {
		return FromError(fmt.Errorf("looking up %s '%s': %w", kind.Label(), name, err))
	}
	if id == "" {
		return Failed(kind.Label() + " does not exist" + NoActionSuffix)
	}
	return r.Mutate(ctx, Mutation{
		Verb:  r.Verb,
		Kind:  kind,
		Scope: parent.Scope(),
		ID:    id,
		Name:  name,
	})
}

// ActOn resolves path down to its target and applies verb to it.
func (r *Request) ActOn(ctx context.Context, path Path, verb string, payload interface{}) Outcome {
	if len(path) == 0 {
		return Failed("empty object path")
	}
	resolved, err := r.Resolve(ctx, path)
	if err != nil {
		return FromError(err)
	}
	target := path[len(path)-1]
	scope := resolved.Scope()
	return r.Mutate(ctx, Mutation{
		Verb:    verb,
		Kind:    target.Kind,
		Scope:   scope[:len(scope)-1],
		ID:      resolved.Leaf(),
		Name:    target.Name,
		Payload: payload,
	})
}
