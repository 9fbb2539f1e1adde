package commands

import (
	"fmt"

	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/model"
)

func switchRow() row {
	return row{
		command: dispatch.Command{
			Name:        "switch",
			Description: "Switch lifecycle: update, reconcile, reboot, save",
			Verbs:       []string{"update", "reconcile", "reboot", "save"},
			Schema: dispatch.Schema{
				Fields: []dispatch.Field{
					dispatch.List("switches", dispatch.TypeStr),
					dispatch.List("fabric", dispatch.TypeStr),
					dispatch.Str("name"),
					dispatch.List("boot_partition", dispatch.TypeStr).
						OneOf("primary", "secondary", "active", "non-active").
						Default([]interface{}{"active"}),
					dispatch.Dict("properties"),
				},
				Check: requireSelection,
			},
		},
		bindings: []binding{
			on("update", bulkAction(model.KindSwitch, switchTarget)),
			on("reconcile", bulkAction(model.KindSwitch, switchTarget)),
			on("reboot", bulkAction(model.KindSwitch, switchTarget)),
			on("save", bulkAction(model.KindSwitch, switchTarget)),
		},
	}
}

func requireSelection(data interface{}) error {
	m, _ := data.(map[string]interface{})
	sw, _ := m["switches"].([]interface{})
	fab, _ := m["fabric"].([]interface{})
	if len(sw) == 0 && len(fab) == 0 {
		return fmt.Errorf("one of 'switches' or 'fabric' is required")
	}
	return nil
}

func switchTarget(req *dispatch.Request) (string, error) {
	var s model.SwitchSelection
	if err := req.Decode(&s); err != nil {
		return "", err
	}
	return s.Target(), nil
}

func discoveryRow() row {
	return row{
		command: dispatch.Command{
			Name:         "discovery",
			Description:  "Discover and onboard switches",
			Verbs:        []string{"discover"},
			ImplicitVerb: "discover",
			Schema: dispatch.Schema{Fields: []dispatch.Field{
				dispatch.List("switches", dispatch.TypeStr).Required().Checked(nonEmpty),
				dispatch.Str("admin_passwd").Required(),
				dispatch.Str("afc_admin_passwd").Required(),
				dispatch.Str("service_account_user").Default("admin"),
			}},
		},
		bindings: []binding{
			on("discover", bulkAction(model.KindDiscovery, func(req *dispatch.Request) (string, error) {
				var d model.Discovery
				if err := req.Decode(&d); err != nil {
					return "", err
				}
				return joinNames(d.Switches), nil
			})),
		},
	}
}

func lagRow() row {
	return row{
		command: dispatch.Command{
			Name:         "lag",
			Description:  "Link aggregation groups",
			Verbs:        []string{"configure"},
			ImplicitVerb: "configure",
			Schema: dispatch.Schema{Fields: []dispatch.Field{
				dispatch.Str("lag_name").Required(),
				dispatch.Int("lag_id").Required(),
				dispatch.ListOf("ports",
					dispatch.Str("switch").Required(),
					dispatch.List("ports", dispatch.TypeStr).Required(),
				).Required(),
				dispatch.Dict("global_config",
					dispatch.Str("ungrouped_vlans").Required(),
					dispatch.List("native_vlan", dispatch.TypeStr).Required(),
					dispatch.Bool("tagged"),
					dispatch.Bool("lacp_fallback").Required(),
					dispatch.Bool("enable_lossless"),
				).Required(),
				dispatch.Dict("lacp_config",
					dispatch.Str("interval").Required().OneOf("slow", "fast"),
				).Required(),
				dispatch.Dict("speed_config",
					dispatch.Int("speed").Required(),
				),
			}},
		},
		bindings: []binding{
			on("configure", bulkAction(model.KindLAG, func(req *dispatch.Request) (string, error) {
				var l model.LAG
				if err := req.Decode(&l); err != nil {
					return "", err
				}
				return l.Name, nil
			})),
		},
	}
}

func physicalInterfaceRow() row {
	return row{
		command: dispatch.Command{
			Name:         "physical_interface",
			Description:  "Per-switch physical port configuration",
			Verbs:        []string{"configure"},
			ImplicitVerb: "configure",
			Schema: dispatch.Schema{
				List: true,
				Fields: []dispatch.Field{
					dispatch.Str("switch").Required(),
					dispatch.ListOf("ports_config",
						dispatch.Str("name").Required(),
						dispatch.Str("ungrouped_vlans"),
						dispatch.Int("native_vlan").Checked(vlanID),
						dispatch.Bool("tagged"),
						dispatch.Str("admin_state").OneOf("enabled", "disabled"),
						dispatch.Str("description"),
						dispatch.Int("speed"),
						dispatch.Int("mtu"),
						dispatch.Str("qsfp_mode"),
						dispatch.Bool("routed"),
						dispatch.Bool("bpdu_filter"),
						dispatch.Bool("bpdu_guard"),
						dispatch.Bool("root_guard"),
						dispatch.Bool("loop_guard"),
						dispatch.Bool("tcn_guard"),
						dispatch.Str("admin_port_type").OneOf("admin-network", "admin-edge"),
						dispatch.Bool("rpvst_guard"),
						dispatch.Bool("rpvst_filter"),
					).Required(),
				},
			},
		},
		bindings: []binding{
			on("configure", bulkAction(model.KindPhysicalInterface, func(req *dispatch.Request) (string, error) {
				var ports []model.SwitchPorts
				if err := req.Decode(&ports); err != nil {
					return "", err
				}
				names := make([]string, 0, len(ports))
				for _, p := range ports {
					names = append(names, p.Switch)
				}
				return joinNames(names), nil
			})),
		},
	}
}
