package commands

import (
	"context"
	"fmt"

	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/model"
)

func vlanRow() row {
	return row{
		command: dispatch.Command{
			Name:        "vlan",
			Description: "VLAN groups and VLAN stretching across fabrics",
			Verbs:       []string{"create", "update", "delete"},
			Schema: dispatch.Schema{
				Fields: []dispatch.Field{
					dispatch.Str("description"),
				},
				Discriminator: "type",
				Variants: []dispatch.Variant{
					{
						Name:  "vlan_group",
						Verbs: []string{"create", "delete"},
						Fields: []dispatch.Field{
							dispatch.Str("name").Required(),
							dispatch.Str("vlans").Checked(vlanRange),
							dispatch.List("fabrics", dispatch.TypeStr),
						},
					},
					{
						Name:  "stretched_vlan",
						Verbs: []string{"create", "update"},
						Fields: []dispatch.Field{
							dispatch.Str("name"),
							dispatch.List("fabrics", dispatch.TypeStr).Required().Checked(nonEmpty),
							dispatch.Str("vlans").Checked(vlanRange),
							dispatch.Str("stretched_vlans").Checked(vlanRange),
							dispatch.ListOf("global_route_targets",
								dispatch.Str("rt_type").OneOf("NN:VLAN", "NN:VNI"),
								dispatch.Str("administrative_number"),
							),
						},
					},
				},
				Check: requireStretchedKey,
			},
		},
		bindings: []binding{
			onVariant("create", "vlan_group", createGlobal(model.KindVLANGroup)),
			onVariant("delete", "vlan_group", deleteGlobal(model.KindVLANGroup)),
			onVariant("create", "stretched_vlan", createStretchedVLAN),
			onVariant("update", "stretched_vlan", updateStretchedVLAN),
		},
	}
}

// A stretched VLAN without a name is identified by its VLAN IDs.
func requireStretchedKey(data interface{}) error {
	m, _ := data.(map[string]interface{})
	if m["type"] != "stretched_vlan" {
		return nil
	}
	if (model.StretchedVLAN{Name: str(m["name"]), VLANs: str(m["stretched_vlans"])}).Key() == "" {
		return fmt.Errorf("one of 'name' or 'stretched_vlans' is required")
	}
	return nil
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

// Stretching is configured on the first fabric listed.
func createStretchedVLAN(ctx context.Context, req *dispatch.Request) dispatch.Outcome {
	var s model.StretchedVLAN
	if err := req.Decode(&s); err != nil {
		return dispatch.FromError(err)
	}
	parent, err := req.Resolve(ctx, dispatch.In(s.OwnerFabric()))
	if err != nil {
		return dispatch.FromError(err)
	}
	return req.CreateIfAbsent(ctx, parent, model.KindStretchedVLAN, s.Key(), req.Body(globalKeys...))
}

func updateStretchedVLAN(ctx context.Context, req *dispatch.Request) dispatch.Outcome {
	var s model.StretchedVLAN
	if err := req.Decode(&s); err != nil {
		return dispatch.FromError(err)
	}
	path := dispatch.In(s.OwnerFabric()).Then(model.KindStretchedVLAN, s.Key())
	return req.ActOn(ctx, path, req.Verb, req.Body(globalKeys...))
}
