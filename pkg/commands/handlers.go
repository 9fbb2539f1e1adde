package commands

import (
	"context"
	"strings"

	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/model"
)

// Routing keys never sent in a request body.
var (
	globalKeys = []string{"type"}
	fabricKeys = []string{"type", "fabric"}
	vrfKeys    = []string{"type", "fabric", "vrf"}
)

// createGlobal creates a top-level object unless one with the same name
// already exists.
func createGlobal(kind model.Kind) dispatch.Handler {
	return func(ctx context.Context, req *dispatch.Request) dispatch.Outcome {
		var n model.Named
		if err := req.Decode(&n); err != nil {
			return dispatch.FromError(err)
		}
		return req.CreateIfAbsent(ctx, dispatch.ResolvedPath{}, kind, n.Name, req.Body(globalKeys...))
	}
}

func deleteGlobal(kind model.Kind) dispatch.Handler {
	return func(ctx context.Context, req *dispatch.Request) dispatch.Outcome {
		var n model.Named
		if err := req.Decode(&n); err != nil {
			return dispatch.FromError(err)
		}
		return req.DeleteIfExists(ctx, dispatch.ResolvedPath{}, kind, n.Name)
	}
}

// createInFabric creates an object owned by a fabric.
func createInFabric(kind model.Kind) dispatch.Handler {
	return func(ctx context.Context, req *dispatch.Request) dispatch.Outcome {
		var s model.Scoped
		if err := req.Decode(&s); err != nil {
			return dispatch.FromError(err)
		}
		parent, err := req.Resolve(ctx, dispatch.In(s.Fabric))
		if err != nil {
			return dispatch.FromError(err)
		}
		return req.CreateIfAbsent(ctx, parent, kind, s.Name, req.Body(fabricKeys...))
	}
}

func deleteInFabric(kind model.Kind) dispatch.Handler {
	return func(ctx context.Context, req *dispatch.Request) dispatch.Outcome {
		var s model.Scoped
		if err := req.Decode(&s); err != nil {
			return dispatch.FromError(err)
		}
		parent, err := req.Resolve(ctx, dispatch.In(s.Fabric))
		if err != nil {
			return dispatch.FromError(err)
		}
		return req.DeleteIfExists(ctx, parent, kind, s.Name)
	}
}

// actInFabric applies the request verb to an existing fabric-owned object.
func actInFabric(kind model.Kind) dispatch.Handler {
	return func(ctx context.Context, req *dispatch.Request) dispatch.Outcome {
		var s model.Scoped
		if err := req.Decode(&s); err != nil {
			return dispatch.FromError(err)
		}
		return req.ActOn(ctx, dispatch.In(s.Fabric).Then(kind, s.Name), req.Verb, nil)
	}
}

func vrfPath(s model.Scoped) dispatch.Path {
	return dispatch.In(s.Fabric).Then(model.KindVRF, s.VRF)
}

// createInVRF creates an object owned by a VRF, resolving fabric then VRF.
func createInVRF(kind model.Kind) dispatch.Handler {
	return func(ctx context.Context, req *dispatch.Request) dispatch.Outcome {
		var s model.Scoped
		if err := req.Decode(&s); err != nil {
			return dispatch.FromError(err)
		}
		parent, err := req.Resolve(ctx, vrfPath(s))
		if err != nil {
			return dispatch.FromError(err)
		}
		return req.CreateIfAbsent(ctx, parent, kind, s.Name, req.Body(vrfKeys...))
	}
}

func deleteInVRF(kind model.Kind) dispatch.Handler {
	return func(ctx context.Context, req *dispatch.Request) dispatch.Outcome {
		var s model.Scoped
		if err := req.Decode(&s); err != nil {
			return dispatch.FromError(err)
		}
		parent, err := req.Resolve(ctx, vrfPath(s))
		if err != nil {
			return dispatch.FromError(err)
		}
		return req.DeleteIfExists(ctx, parent, kind, s.Name)
	}
}

func updateInVRF(kind model.Kind) dispatch.Handler {
	return func(ctx context.Context, req *dispatch.Request) dispatch.Outcome {
		var s model.Scoped
		if err := req.Decode(&s); err != nil {
			return dispatch.FromError(err)
		}
		return req.ActOn(ctx, vrfPath(s).Then(kind, s.Name), "update", req.Body(vrfKeys...))
	}
}

// updateVRFSingleton updates a per-VRF singleton such as the BGP instance.
// A non-nil fixed payload replaces the request body.
func updateVRFSingleton(kind model.Kind, fixed map[string]interface{}) dispatch.Handler {
	return func(ctx context.Context, req *dispatch.Request) dispatch.Outcome {
		var s model.Scoped
		if err := req.Decode(&s); err != nil {
			return dispatch.FromError(err)
		}
		vrf, err := req.Resolve(ctx, vrfPath(s))
		if err != nil {
			return dispatch.FromError(err)
		}
		var body interface{} = fixed
		if fixed == nil {
			body = req.Body(vrfKeys...)
		}
		return req.Mutate(ctx, dispatch.Mutation{
			Verb:    "update",
			Kind:    kind,
			Scope:   vrf.Scope(),
			Name:    s.VRF,
			Payload: body,
		})
	}
}

// bulkAction sends the whole payload as one action with no lookup.
// target extracts a display name from the request.
func bulkAction(kind model.Kind, target func(req *dispatch.Request) (string, error)) dispatch.Handler {
	return func(ctx context.Context, req *dispatch.Request) dispatch.Outcome {
		name, err := target(req)
		if err != nil {
			return dispatch.FromError(err)
		}
		return req.Mutate(ctx, dispatch.Mutation{
			Verb:    req.Verb,
			Kind:    kind,
			Name:    name,
			Payload: req.Body(),
		})
	}
}

func joinNames(names []string) string {
	return strings.Join(names, ",")
}
