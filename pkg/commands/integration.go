package commands

import (
	"context"

	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/model"
)

func integrationRow() row {
	return row{
		command: dispatch.Command{
			Name:        "integration",
			Description: "Third-party integrations (vSphere, Pensando PSM)",
			Verbs:       []string{"create"},
			TypeLabel:   "Integration type",
			Schema: dispatch.Schema{
				Fields: []dispatch.Field{
					dispatch.Str("name"),
					dispatch.Str("description"),
					dispatch.Str("host").Required().Checked(host),
					dispatch.Str("username").Required(),
					dispatch.Str("password").Required(),
					dispatch.Bool("enabled").Default(true),
					dispatch.Bool("verify_ssl").Default(false),
				},
				Discriminator: "type",
				Variants: []dispatch.Variant{
					{
						Name:    "vmware_vsphere",
						Aliases: []string{"vm_vsphere"},
						Verbs:   []string{"create"},
						Fields: []dispatch.Field{
							dispatch.Bool("auto_discovery").Default(true),
							dispatch.Bool("vlan_provisioning").Default(false),
							dispatch.Str("vlan_range").Checked(vlanRange),
							dispatch.Bool("downlink_vlan_provisioning").Default(false),
							dispatch.Str("downlink_vlan_range").Checked(vlanRange),
							dispatch.Bool("pvlan_provisioning").Default(false),
							dispatch.Str("pvlan_range").Checked(vlanRange),
							dispatch.Bool("use_cdp").Default(false),
							dispatch.Bool("storage_optimization").Default(false),
							dispatch.Bool("endpoint_group_provisioning").Default(false),
							dispatch.Bool("cumulative_epg_provisioning").Default(false),
						},
					},
					{
						Name:  "pensando_psm",
						Verbs: []string{"create"},
						Fields: []dispatch.Field{
							dispatch.Bool("auto_discovery").Default(true),
						},
					},
				},
			},
		},
		bindings: []binding{
			onVariant("create", "vmware_vsphere", createIntegration(model.KindVSphere)),
			onVariant("create", "pensando_psm", createIntegration(model.KindPSM)),
		},
	}
}

// createIntegration registers an integration unless one for the same host
// already exists.
func createIntegration(kind model.Kind) dispatch.Handler {
	return func(ctx context.Context, req *dispatch.Request) dispatch.Outcome {
		var in model.Integration
		if err := req.Decode(&in); err != nil {
			return dispatch.FromError(err)
		}
		return req.CreateIfAbsent(ctx, dispatch.ResolvedPath{}, kind, in.Host, req.Body(globalKeys...))
	}
}
