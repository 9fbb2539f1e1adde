package model

import "strings"

// Named is the routing view of payloads addressed by name alone
// (NTP, SNMP, DHCP relay, route policies, DSS objects).
type Named struct {
	Name string `mapstructure:"name"`
	Type string `mapstructure:"type"`
}

// Scoped is the routing view of payloads that live under a fabric and,
// for VRF-scoped objects, a VRF.
type Scoped struct {
	Name   string `mapstructure:"name"`
	Type   string `mapstructure:"type"`
	Fabric string `mapstructure:"fabric"`
	VRF    string `mapstructure:"vrf"`
}

// StretchedVLAN is the routing view of a stretched VLAN payload. The first
// fabric in Fabrics owns the stretching configuration.
type StretchedVLAN struct {
	Name    string   `mapstructure:"name"`
	VLANs   string   `mapstructure:"stretched_vlans"`
	Fabrics []string `mapstructure:"fabrics"`
}

// Key identifies the stretching: its name, or its VLAN IDs when unnamed.
func (s StretchedVLAN) Key() string {
	if s.Name != "" {
		return s.Name
	}
	return s.VLANs
}

// OwnerFabric returns the fabric the stretching is configured on.
func (s StretchedVLAN) OwnerFabric() string {
	if len(s.Fabrics) == 0 {
		return ""
	}
	return s.Fabrics[0]
}

// Integration is the routing view of a third-party integration payload.
// Integrations are keyed by host.
type Integration struct {
	Type string `mapstructure:"type"`
	Host string `mapstructure:"host"`
}

// SwitchSelection selects switches for lifecycle verbs.
type SwitchSelection struct {
	Switches      []string `mapstructure:"switches"`
	Fabrics       []string `mapstructure:"fabric"`
	BootPartition []string `mapstructure:"boot_partition"`
}

// Target names the selection for messages and audit records.
func (s SwitchSelection) Target() string {
	if len(s.Switches) > 0 {
		return strings.Join(s.Switches, ",")
	}
	return strings.Join(s.Fabrics, ",")
}

// Discovery lists the switches to onboard.
type Discovery struct {
	Switches           []string `mapstructure:"switches"`
	ServiceAccountUser string   `mapstructure:"service_account_user"`
}

// LAG is the routing view of a LAG payload.
type LAG struct {
	Name string `mapstructure:"lag_name"`
	ID   int    `mapstructure:"lag_id"`
}

// SwitchPorts is one element of a physical interface payload.
type SwitchPorts struct {
	Switch      string                   `mapstructure:"switch"`
	PortsConfig []map[string]interface{} `mapstructure:"ports_config"`
}

// PortNames returns the names of the configured ports.
func (s SwitchPorts) PortNames() []string {
	names := make([]string, 0, len(s.PortsConfig))
	for _, p := range s.PortsConfig {
		if n, ok := p["name"].(string); ok {
			names = append(names, n)
		}
	}
	return names
}
