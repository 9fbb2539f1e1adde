package dispatch

import (
	"context"
	"fmt"

	"github.com/afc-network/afcctl/pkg/model"
	"github.com/afc-network/afcctl/pkg/util"
)

// Ref names one level of an object path.
type Ref struct {
	Kind model.Kind
	Name string
}

// Path is an ordered chain of references, outermost first
// (fabric, then VRF, then the object).
type Path []Ref

// In returns the path for a fabric.
func In(fabric string) Path {
	return Path{{Kind: model.KindFabric, Name: fabric}}
}

// Then extends the path by one level.
func (p Path) Then(kind model.Kind, name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Ref{Kind: kind, Name: name})
}

// ResolvedPath holds the identifier of every level of a resolved path.
type ResolvedPath struct {
	Refs Path
	IDs  []string
}

// Scope returns the resolved identifiers, for use as a child's scope.
func (r ResolvedPath) Scope() []string {
	out := make([]string, len(r.IDs))
	copy(out, r.IDs)
	return out
}

// Leaf returns the identifier of the innermost level.
func (r ResolvedPath) Leaf() string {
	if len(r.IDs) == 0 {
		return ""
	}
	return r.IDs[len(r.IDs)-1]
}

// Resolve walks path left to right. Each lookup is scoped by the identifiers
// of the levels before it, and the walk stops at the first level that does
// not exist.
func Resolve(ctx context.Context, conn Conn, path Path) (ResolvedPath, error) {
	resolved := ResolvedPath{Refs: path, IDs: make([]string, 0, len(path))}
	for _, ref := range path {
		if ref.Name == "" {
			return resolved, util.NewNotFoundError(ref.Kind.Label(), "")
		}
		id, err := conn.Lookup(ctx, ref.Kind, ref.Name, resolved.Scope())
		if err != nil {
			return resolved, fmt.Errorf("looking up %s '%s': %w", ref.Kind.Label(), ref.Name, err)
		}
		if id == "" {
			return resolved, util.NewNotFoundError(ref.Kind.Label(), ref.Name)
		}
		resolved.IDs = append(resolved.IDs, id)
	}
	return resolved, nil
}
