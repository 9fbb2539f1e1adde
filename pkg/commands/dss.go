package commands

import (
	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/model"
)

var dssSubtypes = []string{"firewall", "layer3", "layer2"}

func dssRow() row {
	createDelete := []string{"create", "delete"}
	return row{
		command: dispatch.Command{
			Name:        "dss",
			Description: "Distributed services: policies, rules, endpoint groups, qualifiers and networks",
			Verbs:       []string{"create", "update", "delete"},
			Schema: dispatch.Schema{
				Fields: []dispatch.Field{
					dispatch.Str("name").Required(),
					dispatch.Str("description"),
				},
				Discriminator: "type",
				Variants: []dispatch.Variant{
					{
						Name:  "policy",
						Verbs: createDelete,
						Fields: []dispatch.Field{
							dispatch.Str("policy_subtype").OneOf(dssSubtypes...).Default("firewall"),
							dispatch.ListOf("enforcers",
								dispatch.Str("direction").Required().OneOf("ingress", "egress"),
								dispatch.Str("fabric").Required(),
								dispatch.Str("enforcer_type").Required().OneOf("network", "vrf"),
								dispatch.Str("vrf").Required(),
								dispatch.Str("network"),
							),
							dispatch.Int("priority"),
							dispatch.List("rules", dispatch.TypeStr),
						},
					},
					{
						Name:  "rule",
						Verbs: createDelete,
						Fields: []dispatch.Field{
							dispatch.Str("action").OneOf("allow", "drop", "reject"),
							dispatch.List("source_endpoint_groups", dispatch.TypeStr),
							dispatch.List("destination_endpoint_groups", dispatch.TypeStr),
							dispatch.List("service_qualifiers", dispatch.TypeStr),
						},
					},
					{
						Name:  "endpoint_group",
						Verbs: createDelete,
						Fields: []dispatch.Field{
							dispatch.Str("eg_type").OneOf(dssSubtypes...),
							dispatch.ListOf("endpoints",
								dispatch.Str("vm_name"),
								dispatch.Str("vnic_name"),
								dispatch.Str("vmkernel_adapter_name"),
								dispatch.Str("vm_tag"),
								dispatch.Str("ipv4_range"),
								dispatch.Str("ipv4_subnet"),
							),
						},
					},
					{
						Name:  "qualifier",
						Verbs: createDelete,
						Fields: []dispatch.Field{
							dispatch.Str("qualifier_type").OneOf(dssSubtypes...),
							dispatch.ListOf("protocol_identifier",
								dispatch.Str("src_port"),
								dispatch.Str("dst_port"),
								dispatch.Str("ip_protocol"),
							),
						},
					},
					{
						Name:  "network",
						Verbs: []string{"create", "update", "delete"},
						Fields: []dispatch.Field{
							dispatch.Str("fabric").Required(),
							dispatch.Str("vrf").Required(),
							dispatch.Str("vlan_id").RequiredFor("create").Checked(vlanRange),
							dispatch.Bool("service_bypass").RequiredFor("create"),
						},
					},
				},
			},
		},
		bindings: []binding{
			onVariant("create", "policy", createGlobal(model.KindPolicy)),
			onVariant("delete", "policy", deleteGlobal(model.KindPolicy)),
			onVariant("create", "rule", createGlobal(model.KindRule)),
			onVariant("delete", "rule", deleteGlobal(model.KindRule)),
			onVariant("create", "endpoint_group", createGlobal(model.KindEndpointGroup)),
			onVariant("delete", "endpoint_group", deleteGlobal(model.KindEndpointGroup)),
			onVariant("create", "qualifier", createGlobal(model.KindQualifier)),
			onVariant("delete", "qualifier", deleteGlobal(model.KindQualifier)),
			onVariant("create", "network", createInVRF(model.KindNetwork)),
			onVariant("update", "network", updateInVRF(model.KindNetwork)),
			onVariant("delete", "network", deleteInVRF(model.KindNetwork)),
		},
	}
}
