// Package model defines the controller object kinds and the typed views of
// invocation payloads that handlers route on.
package model

// Kind identifies a controller object type. Kinds are the unit of lookup and
// mutation on the controller connection.
type Kind string

const (
	KindFabric Kind = "fabric"
	KindVRF    Kind = "vrf"
	KindBGP    Kind = "bgp"

	KindOSPFRouter    Kind = "ospf_router"
	KindOSPFArea      Kind = "ospf_area"
	KindOSPFInterface Kind = "ospf_interface"
	KindIPInterface   Kind = "ip_interface"

	KindVLANGroup     Kind = "vlan_group"
	KindStretchedVLAN Kind = "stretched_vlan"
	KindDHCPRelay     Kind = "dhcp_relay"

	KindPolicy        Kind = "policy"
	KindRule          Kind = "rule"
	KindEndpointGroup Kind = "endpoint_group"
	KindQualifier     Kind = "qualifier"
	KindNetwork       Kind = "network"

	KindVSphere Kind = "vmware_vsphere"
	KindPSM     Kind = "pensando_psm"

	KindSwitch            Kind = "switch"
	KindDiscovery         Kind = "discovery"
	KindLAG               Kind = "lag"
	KindPhysicalInterface Kind = "physical_interface"

	KindNTP    Kind = "ntp"
	KindSNMP   Kind = "snmp"
	KindSTP    Kind = "stp"
	KindSyslog Kind = "syslog"

	KindRouteMap      Kind = "route_map"
	KindASPathList    Kind = "aspath_list"
	KindPrefixList    Kind = "prefix_list"
	KindCommunityList Kind = "community_list"
)

var kindLabels = map[Kind]string{
	KindFabric:            "Fabric",
	KindVRF:               "VRF",
	KindBGP:               "BGP",
	KindOSPFRouter:        "OSPF Router",
	KindOSPFArea:          "OSPF Area",
	KindOSPFInterface:     "OSPF Interface",
	KindIPInterface:       "IP Interface",
	KindVLANGroup:         "VLAN Group",
	KindStretchedVLAN:     "Stretched VLAN",
	KindDHCPRelay:         "DHCP Relay",
	KindPolicy:            "Policy",
	KindRule:              "Rule",
	KindEndpointGroup:     "Endpoint Group",
	KindQualifier:         "Qualifier",
	KindNetwork:           "Network",
	KindVSphere:           "vSphere Integration",
	KindPSM:               "PSM Integration",
	KindSwitch:            "Switch",
	KindDiscovery:         "Discovery",
	KindLAG:               "LAG",
	KindPhysicalInterface: "Physical Interface",
	KindNTP:               "NTP",
	KindSNMP:              "SNMP",
	KindSTP:               "STP",
	KindSyslog:            "Syslog",
	KindRouteMap:          "Route Map",
	KindASPathList:        "AS Path List",
	KindPrefixList:        "Prefix List",
	KindCommunityList:     "Community List",
}

// Label returns the human-readable name used in outcome messages
// ("VRF", "DHCP Relay"). Unknown kinds fall back to the raw identifier.
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return string(k)
}

// Known reports whether k is one of the declared kinds.
func (k Kind) Known() bool {
	_, ok := kindLabels[k]
	return ok
}

func (k Kind) String() string {
	return string(k)
}
