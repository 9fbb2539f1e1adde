package dispatch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/afc-network/afcctl/internal/testutil"
	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/model"
	"github.com/afc-network/afcctl/pkg/util"
)

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("full path", func(t *testing.T) {
		conn := testutil.NewFakeConn().
			Add(model.KindFabric, "dc1", "f-1").
			Add(model.KindVRF, "blue", "v-1", "f-1")

		got, err := dispatch.Resolve(ctx, conn, dispatch.In("dc1").Then(model.KindVRF, "blue"))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if diff := cmp.Diff([]string{"f-1", "v-1"}, got.IDs); diff != "" {
			t.Errorf("IDs mismatch (-want +got):\n%s", diff)
		}
		if got.Leaf() != "v-1" {
			t.Errorf("Leaf() = %q, want %q", got.Leaf(), "v-1")
		}
		want := []testutil.LookupCall{
			{Kind: model.KindFabric, Name: "dc1"},
			{Kind: model.KindVRF, Name: "blue", Scope: []string{"f-1"}},
		}
		if diff := cmp.Diff(want, conn.Lookups); diff != "" {
			t.Errorf("lookups mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("parent missing stops the walk", func(t *testing.T) {
		conn := testutil.NewFakeConn().Add(model.KindVRF, "blue", "v-1", "f-1")

		_, err := dispatch.Resolve(ctx, conn, dispatch.In("dc1").Then(model.KindVRF, "blue"))
		var nf *util.NotFoundError
		if !errors.As(err, &nf) || nf.Level != "Fabric" {
			t.Fatalf("Resolve() error = %v, want Fabric not found", err)
		}
		if conn.LookedUp(model.KindVRF) {
			t.Error("child was looked up although its parent is missing")
		}
	})

	t.Run("child missing", func(t *testing.T) {
		conn := testutil.NewFakeConn().Add(model.KindFabric, "dc1", "f-1")

		_, err := dispatch.Resolve(ctx, conn, dispatch.In("dc1").Then(model.KindVRF, "blue"))
		var nf *util.NotFoundError
		if !errors.As(err, &nf) || nf.Level != "VRF" {
			t.Fatalf("Resolve() error = %v, want VRF not found", err)
		}
	})

	t.Run("names match exactly", func(t *testing.T) {
		conn := testutil.NewFakeConn().Add(model.KindFabric, "DC1", "f-1")

		if _, err := dispatch.Resolve(ctx, conn, dispatch.In("dc1")); !errors.Is(err, util.ErrNotFound) {
			t.Errorf("Resolve() error = %v, want not found", err)
		}
	})

	t.Run("lookup error is wrapped", func(t *testing.T) {
		conn := testutil.NewFakeConn()
		conn.LookupErr = errors.New("HTTP 500")

		_, err := dispatch.Resolve(ctx, conn, dispatch.In("dc1"))
		if err == nil || errors.Is(err, util.ErrNotFound) {
			t.Fatalf("Resolve() error = %v, want lookup failure", err)
		}
	})
}

func TestPath_ThenDoesNotAlias(t *testing.T) {
	base := dispatch.In("dc1")
	a := base.Then(model.KindVRF, "a")
	b := base.Then(model.KindVRF, "b")
	if a[1].Name != "a" || b[1].Name != "b" {
		t.Errorf("Then() aliased paths: %v %v", a, b)
	}
}
