package commands

import (
	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/model"
)

var addressFamilies = []string{"evpn", "ipv4_unicast", "ipv6_unicast"}

func routeTargetFields() []dispatch.Field {
	return []dispatch.Field{
		dispatch.Str("as_number"),
		dispatch.Str("address_family").OneOf(addressFamilies...),
		dispatch.Str("route_mode").OneOf("import", "export", "both"),
	}
}

func vrfRow() row {
	return row{
		command: dispatch.Command{
			Name:        "vrf",
			Description: "VRFs within a fabric",
			Verbs:       []string{"create", "reapply", "delete"},
			Schema: dispatch.Schema{Fields: []dispatch.Field{
				dispatch.Str("name").Required(),
				dispatch.Str("fabric").Required(),
				dispatch.Int("vni"),
				dispatch.Str("route_distinguisher").Required().Default("loopback1:1"),
				dispatch.Str("max_cps_mode").OneOf("unlimited", "enabled").Default("unlimited"),
				dispatch.Int("max_cps"),
				dispatch.Str("max_sessions_mode").OneOf("unlimited", "enabled").Default("unlimited"),
				dispatch.Int("max_sessions"),
				dispatch.Bool("allow_session_reuse").Default(false),
				dispatch.Bool("connection_tracking_mode").Default(false),
				dispatch.Dict("route_target",
					dispatch.Dict("primary_route_target", routeTargetFields()...),
					dispatch.ListOf("secondary_route_targets", routeTargetFields()...),
				),
			}},
		},
		bindings: []binding{
			on("create", createInFabric(model.KindVRF)),
			on("reapply", actInFabric(model.KindVRF)),
			on("delete", deleteInFabric(model.KindVRF)),
		},
	}
}

func vrfBGPRow() row {
	return row{
		command: dispatch.Command{
			Name:        "vrf_bgp",
			Description: "BGP instance of a VRF",
			Verbs:       []string{"enable", "update", "disable"},
			Schema: dispatch.Schema{Fields: []dispatch.Field{
				dispatch.Str("fabric").Required(),
				dispatch.Str("vrf").Required(),
				dispatch.Str("as_number").RequiredFor("enable").Checked(asNumber),
				dispatch.Str("description"),
				dispatch.Str("router_id").Checked(ipv4Address),
				dispatch.Bool("redistribute_ospf").Default(false),
				dispatch.Bool("redistribute_static").Default(false),
				dispatch.Bool("redistribute_loopback").Default(false),
				dispatch.Bool("redistribute_connected").Default(false),
				dispatch.Int("keepalive_timer").Default(60),
				dispatch.Int("holddown_timer").Default(180),
				dispatch.Bool("enable").Default(true),
				dispatch.Bool("bestpath").Default(true),
				dispatch.Bool("fast_external_fallover").Default(true),
				dispatch.Bool("trap_enable").Default(true),
				dispatch.Bool("log_neighbor_changes").Default(true),
				dispatch.Bool("deterministic_med").Default(true),
				dispatch.Bool("always_compare_med").Default(true),
				dispatch.Int("maximum_paths").Default(8),
				dispatch.List("networks", dispatch.TypeStr),
				dispatch.List("neighbors", dispatch.TypeStr),
			}},
		},
		bindings: []binding{
			on("enable", updateVRFSingleton(model.KindBGP, nil)),
			on("update", updateVRFSingleton(model.KindBGP, nil)),
			on("disable", updateVRFSingleton(model.KindBGP, map[string]interface{}{"enable": false})),
		},
	}
}

func ospfRow() row {
	return row{
		command: dispatch.Command{
			Name:        "ospf",
			Description: "OSPF routers, areas and interfaces of a VRF",
			Verbs:       []string{"create"},
			Schema: dispatch.Schema{
				Fields: []dispatch.Field{
					dispatch.Str("fabric").Required(),
					dispatch.Str("vrf").Required(),
					dispatch.Str("name").Required(),
				},
				Discriminator: "type",
				Variants: []dispatch.Variant{
					{
						Name:  "router",
						Verbs: []string{"create"},
						Fields: []dispatch.Field{
							dispatch.Bool("enable").Default(true),
							dispatch.Int("id").Default(1),
							dispatch.Dict("redistribute",
								dispatch.Bool("redistribute_static").Default(false),
								dispatch.Bool("redistribute_connected").Default(true),
								dispatch.Bool("redistribute_local").Default(true),
								dispatch.Bool("redistribute_bgp").Default(false),
							),
							dispatch.Dict("redistribute_route_map",
								dispatch.Str("redistribute_connected_route_map"),
								dispatch.Str("redistribute_local_route_map"),
							),
							dispatch.Int("maximum_paths").Default(8),
							dispatch.Bool("max_metric_router_lsa").Default(true),
							dispatch.Bool("max_metric_include_stub").Default(true),
							dispatch.Int("max_metric_on_startup"),
							dispatch.Bool("passive_interface_default").Default(true),
							dispatch.Bool("trap_enable").Default(true),
							dispatch.Bool("gr_ignore_lost_interface").Default(false),
							dispatch.Int("gr_restart_interval"),
							dispatch.Int("distance"),
							dispatch.Int("default_metric"),
							dispatch.Str("default_information").OneOf("disable", "originate", "always_originate").Default("disable"),
							dispatch.List("switches", dispatch.TypeStr).Required(),
						},
					},
					{
						Name:  "area",
						Verbs: []string{"create"},
						Fields: []dispatch.Field{
							dispatch.Int("area_id").Default(0),
							dispatch.Str("area_type").OneOf("standard", "nssa", "stub", "stub_no_summary", "nssa_no_summary").Default("standard"),
							dispatch.List("switches", dispatch.TypeStr),
						},
					},
					{
						Name:  "interface",
						Verbs: []string{"create"},
						Fields: []dispatch.Field{
							dispatch.Int("area_id").Default(0),
							dispatch.Int("priority").Default(1),
							dispatch.Int("process").Default(1),
							dispatch.Int("hello_interval").Default(10),
							dispatch.Int("dead_interval").Default(40),
							dispatch.Int("mtu_size").Default(1500),
							dispatch.Bool("ignore_mtu_mismatch").Default(false),
							dispatch.Bool("passive_mode").Default(false),
							dispatch.Str("authentication_type").OneOf("simple-text", "message-digest"),
							dispatch.Str("authentication_value"),
							dispatch.List("md5_list", dispatch.TypeStr),
							dispatch.Str("network_type").Required().OneOf(
								"ospf_iftype_pointopoint", "ospf_iftype_broadcast", "ospf_iftype_loopback", "ospf_iftype_none"),
							dispatch.Bool("bfd"),
							dispatch.List("switches", dispatch.TypeStr).Required(),
						},
					},
				},
			},
		},
		bindings: []binding{
			onVariant("create", "router", createInVRF(model.KindOSPFRouter)),
			onVariant("create", "area", createInVRF(model.KindOSPFArea)),
			onVariant("create", "interface", createInVRF(model.KindOSPFInterface)),
		},
	}
}

func ipInterfaceRow() row {
	return row{
		command: dispatch.Command{
			Name:        "ip_interface",
			Description: "Layer 3 interfaces of a VRF",
			Verbs:       []string{"create", "delete"},
			Schema: dispatch.Schema{Fields: []dispatch.Field{
				dispatch.Str("fabric").Required(),
				dispatch.Str("vrf").Required(),
				dispatch.Str("name").Required(),
				dispatch.Bool("enable").Default(true),
				dispatch.Bool("local_proxy_arp_enabled").Default(false),
				dispatch.Int("vlan").Checked(vlanID),
				dispatch.Str("interface"),
				dispatch.Str("if_type").RequiredFor("create").OneOf("vlan", "routed", "loopback"),
				dispatch.Dict("ipv4_primary_address",
					dispatch.Str("address").Required().Checked(ipAddressOrRange),
					dispatch.Int("prefix_length").Required().Checked(prefixLength),
				).RequiredFor("create"),
				dispatch.Dict("active_gateway"),
				dispatch.List("switches", dispatch.TypeStr),
			}},
		},
		bindings: []binding{
			on("create", createInVRF(model.KindIPInterface)),
			on("delete", deleteInVRF(model.KindIPInterface)),
		},
	}
}
