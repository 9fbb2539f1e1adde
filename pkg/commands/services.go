package commands

import (
	"fmt"

	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/model"
)

var severities = []string{"EMERG", "ALERT", "CRIT", "ERROR", "WARNING", "NOTICE", "INFO", "DEBUG"}

// globalRow declares a named top-level service object with create and
// delete verbs.
func globalRow(name, description string, kind model.Kind, fields ...dispatch.Field) row {
	return row{
		command: dispatch.Command{
			Name:        name,
			Description: description,
			Verbs:       []string{"create", "delete"},
			Schema: dispatch.Schema{Fields: append([]dispatch.Field{
				dispatch.Str("name").Required(),
				dispatch.Str("description"),
				dispatch.List("fabrics", dispatch.TypeStr),
				dispatch.List("switches", dispatch.TypeStr),
			}, fields...)},
		},
		bindings: []binding{
			on("create", createGlobal(kind)),
			on("delete", deleteGlobal(kind)),
		},
	}
}

func ntpRow() row {
	return globalRow("ntp", "NTP client configuration", model.KindNTP,
		dispatch.ListOf("servers",
			dispatch.Str("server").Required().Checked(host),
			dispatch.Str("burst_mode").OneOf("iburst", "burst"),
			dispatch.Bool("prefer"),
		),
	)
}

func snmpRow() row {
	r := globalRow("snmp", "SNMP agent configuration", model.KindSNMP,
		dispatch.Bool("enable").Default(true),
		dispatch.Str("location"),
		dispatch.Str("contact"),
		dispatch.Str("community"),
		dispatch.Int("agent_port").Default(161).Checked(port),
		dispatch.Int("trap_port").Checked(port),
		dispatch.ListOf("users",
			dispatch.Str("name").Required(),
			dispatch.Str("level").Required().OneOf("noauth", "auth", "priv"),
			dispatch.Str("auth_type").OneOf("SHA", "MD5").Default("SHA"),
			dispatch.Str("auth_pass"),
			dispatch.Str("priv_type").OneOf("AES", "DES").Default("AES"),
			dispatch.Str("priv_pass"),
			dispatch.Str("context"),
		),
		dispatch.ListOf("servers",
			dispatch.Str("address").Required().Checked(host),
			dispatch.Str("community").Required(),
		),
	)
	r.command.Schema.Check = requireScope
	r.command.Schema.CheckOn = []string{"create"}
	return r
}

// requireScope insists on at least one fabric or switch to apply to.
func requireScope(data interface{}) error {
	m, _ := data.(map[string]interface{})
	fab, _ := m["fabrics"].([]interface{})
	sw, _ := m["switches"].([]interface{})
	if len(fab) == 0 && len(sw) == 0 {
		return fmt.Errorf("one of 'fabrics' or 'switches' is required")
	}
	return nil
}

func stpRow() row {
	return globalRow("stp", "Spanning tree configuration", model.KindSTP,
		dispatch.Str("config_type").OneOf("mstp", "rpvst").Default("mstp"),
		dispatch.ListOf("configuration",
			dispatch.Dict("mstp_config",
				dispatch.Int("config_revision").Required(),
				dispatch.Str("config_name").Required(),
				dispatch.ListOf("instances",
					dispatch.Int("instance_id").Required(),
					dispatch.Str("vlan_ids").Required().Checked(vlanRange),
				),
			),
			dispatch.Dict("rpvst_config",
				dispatch.Str("vlan_ids").Required().Checked(vlanRange),
			),
		).RequiredFor("create"),
	)
}

func syslogRow() row {
	return globalRow("syslog", "Remote syslog configuration", model.KindSyslog,
		dispatch.Str("facility").OneOf(
			"LOCAL0", "LOCAL1", "LOCAL2", "LOCAL3", "LOCAL4", "LOCAL5", "LOCAL6", "LOCAL7", "USER"),
		dispatch.Dict("logging_persistent_storage",
			dispatch.Str("severity").OneOf(severities...).Default("INFO"),
			dispatch.Bool("enable").Default(true),
		),
		dispatch.ListOf("entry_list",
			dispatch.Str("host").Required().Checked(host),
			dispatch.Int("port").Checked(port),
			dispatch.Str("severity").OneOf(severities...).Default("INFO"),
			dispatch.Bool("include_auditable_events").Default(true),
			dispatch.Bool("unsecure_tls_renegotiation").Default(true),
			dispatch.Str("tls_auth_mode").OneOf("certificate", "subject-name"),
			dispatch.Str("transport").OneOf("udp", "tcp", "tls").Default("udp"),
		).RequiredFor("create"),
	)
}

func dhcpRelayRow() row {
	return globalRow("dhcp_relay", "DHCP relay configuration", model.KindDHCPRelay,
		dispatch.Str("vlans").Checked(vlanRange),
		dispatch.Str("gateway_address").Checked(ipAddress),
		dispatch.List("ipv4_dhcp_server_addresses", dispatch.TypeStr).Checked(ipAddresses),
		dispatch.List("ipv6_dhcp_server_addresses", dispatch.TypeStr).Checked(ipAddresses),
		dispatch.List("ipv6_dhcp_mcast_server_addresses", dispatch.TypeStr).Checked(ipAddresses),
		dispatch.Str("v4relay_option82_policy").OneOf("replace", "drop", "keep"),
		dispatch.Bool("v4relay_option82_validation"),
		dispatch.Bool("v4relay_source_interface"),
	)
}
