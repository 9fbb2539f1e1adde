package commands

import (
	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/model"
)

func routePolicyEntry() []dispatch.Field {
	return []dispatch.Field{
		dispatch.Int("seq").Required(),
		dispatch.Str("action").Required().OneOf("permit", "deny"),
		dispatch.Str("description"),
		dispatch.Str("regex"),
		dispatch.Str("match_string"),
		dispatch.Str("prefix"),
		dispatch.Int("ge").Checked(prefixLength),
		dispatch.Int("le").Checked(prefixLength),
		dispatch.Str("match_aspath_list"),
		dispatch.Str("match_community_list"),
		dispatch.Str("match_extcommunity_list"),
		dispatch.Str("match_prefix_list"),
		dispatch.Str("match_interface"),
		dispatch.Str("match_local_preference"),
		dispatch.Str("match_metric"),
		dispatch.Str("match_origin"),
		dispatch.Str("match_route_type"),
		dispatch.Str("match_source_protocol"),
		dispatch.Str("match_tag"),
		dispatch.Int("match_vni"),
		dispatch.Int("route_map_continue"),
		dispatch.Str("set_as_path_exclude"),
		dispatch.Str("set_as_path_prepend"),
		dispatch.Str("set_community"),
		dispatch.Str("set_community_additive"),
		dispatch.Str("set_extcommunity_rt"),
		dispatch.Str("set_ipv4_next_hop"),
		dispatch.Str("set_local_preference"),
		dispatch.Str("set_metric"),
		dispatch.Str("set_metric_type"),
		dispatch.Str("set_origin"),
		dispatch.Str("set_tag"),
		dispatch.Str("set_weight"),
	}
}

func routePolicyRow() row {
	both := []string{"create", "delete"}
	return row{
		command: dispatch.Command{
			Name:        "route_policy",
			Description: "Route maps, AS path lists, prefix lists and community lists",
			Verbs:       both,
			TypeLabel:   "Route Policy type",
			Schema: dispatch.Schema{
				Fields: []dispatch.Field{
					dispatch.Str("name").Required(),
					dispatch.Str("description"),
					dispatch.List("fabrics", dispatch.TypeStr),
					dispatch.List("switches", dispatch.TypeStr),
					dispatch.ListOf("entries", routePolicyEntry()...),
				},
				Discriminator: "type",
				Variants: []dispatch.Variant{
					{Name: "route_map", Verbs: both},
					{Name: "aspath_list", Verbs: both},
					{
						Name:  "prefix_list",
						Verbs: both,
						Fields: []dispatch.Field{
							dispatch.Int("seq"),
							dispatch.Str("action").OneOf("permit", "deny"),
							dispatch.Dict("prefix",
								dispatch.Str("address").Required().Checked(ipAddress),
								dispatch.Int("prefix_length").Required().Checked(prefixLength),
							),
							dispatch.Int("ge").Checked(prefixLength),
							dispatch.Int("le").Checked(prefixLength),
						},
					},
					{
						Name:  "community_list",
						Verbs: both,
						Fields: []dispatch.Field{
							dispatch.Str("object_type").OneOf(
								"community-list", "community-expanded-list",
								"extcommunity-list", "extcommunity-expanded-list").
								Default("community-list"),
						},
					},
				},
			},
		},
		bindings: []binding{
			onVariant("create", "route_map", createGlobal(model.KindRouteMap)),
			onVariant("delete", "route_map", deleteGlobal(model.KindRouteMap)),
			onVariant("create", "aspath_list", createGlobal(model.KindASPathList)),
			onVariant("delete", "aspath_list", deleteGlobal(model.KindASPathList)),
			onVariant("create", "prefix_list", createGlobal(model.KindPrefixList)),
			onVariant("delete", "prefix_list", deleteGlobal(model.KindPrefixList)),
			onVariant("create", "community_list", createGlobal(model.KindCommunityList)),
			onVariant("delete", "community_list", deleteGlobal(model.KindCommunityList)),
		},
	}
}
