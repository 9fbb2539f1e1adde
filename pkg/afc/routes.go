package afc

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/afc-network/afcctl/pkg/model"
)

// route describes where a kind lives in the REST tree. collection may hold
// one %s per scope identifier, outermost first.
type route struct {
	collection string
	// key is the attribute matched against the name on lookup.
	key string
	// singleton kinds are addressed by their collection path alone.
	singleton bool
	// actions overrides the request for specific verbs.
	actions map[string]endpoint
}

type endpoint struct {
	method string
	path   string
}

var routes = map[model.Kind]route{
	model.KindFabric:        {collection: "/fabrics"},
	model.KindVRF:           {collection: "/fabrics/%s/vrfs"},
	model.KindBGP:           {collection: "/fabrics/%s/vrfs/%s/bgp", singleton: true},
	model.KindOSPFRouter:    {collection: "/fabrics/%s/vrfs/%s/ospf/routers"},
	model.KindOSPFArea:      {collection: "/fabrics/%s/vrfs/%s/ospf/areas"},
	model.KindOSPFInterface: {collection: "/fabrics/%s/vrfs/%s/ospf/interfaces"},
	model.KindIPInterface:   {collection: "/fabrics/%s/vrfs/%s/ip_interfaces"},
	model.KindNetwork:       {collection: "/fabrics/%s/vrfs/%s/networks"},
	model.KindStretchedVLAN: {collection: "/fabrics/%s/vlan_stretching"},
	model.KindVLANGroup:     {collection: "/vlan_groups"},
	model.KindDHCPRelay:     {collection: "/dhcp_relay"},
	model.KindPolicy:        {collection: "/policies"},
	model.KindRule:          {collection: "/rules"},
	model.KindEndpointGroup: {collection: "/endpoint_groups"},
	model.KindQualifier:     {collection: "/qualifiers"},
	model.KindVSphere:       {collection: "/vmware_vsphere", key: "host"},
	model.KindPSM:           {collection: "/pensando_psm", key: "host"},
	model.KindSwitch:        {collection: "/switches"},
	model.KindDiscovery: {
		collection: "/switches",
		actions:    map[string]endpoint{"discover": {http.MethodPost, "/switches/discover"}},
	},
	model.KindLAG: {
		collection: "/lags",
		actions:    map[string]endpoint{"configure": {http.MethodPost, "/lags"}},
	},
	model.KindPhysicalInterface: {
		collection: "/ports",
		actions:    map[string]endpoint{"configure": {http.MethodPatch, "/ports"}},
	},
	model.KindNTP:           {collection: "/ntp_client_configurations"},
	model.KindSNMP:          {collection: "/snmp_configurations"},
	model.KindSTP:           {collection: "/stp_configurations"},
	model.KindSyslog:        {collection: "/syslog_client_configurations"},
	model.KindRouteMap:      {collection: "/route_maps"},
	model.KindASPathList:    {collection: "/aspath_lists"},
	model.KindPrefixList:    {collection: "/prefix_lists"},
	model.KindCommunityList: {collection: "/community_lists"},
}

func routeFor(kind model.Kind) (route, error) {
	r, ok := routes[kind]
	if !ok {
		return route{}, fmt.Errorf("no controller route for %s", kind)
	}
	return r, nil
}

func (r route) keyAttr() string {
	if r.key == "" {
		return "name"
	}
	return r.key
}

// path fills the collection template with scope identifiers.
func (r route) path(scope []string) (string, error) {
	want := strings.Count(r.collection, "%s")
	if len(scope) != want {
		return "", fmt.Errorf("%s needs %d scope identifiers, got %d", r.collection, want, len(scope))
	}
	args := make([]interface{}, len(scope))
	for i, s := range scope {
		args[i] = s
	}
	return fmt.Sprintf(r.collection, args...), nil
}

// request maps a verb on an object to a method and path. create posts to
// the collection, update and delete address the object, any other verb is
// posted to an action sub-resource.
func (r route) request(verb string, scope []string, id string) (endpoint, error) {
	if ep, ok := r.actions[verb]; ok {
		return ep, nil
	}
	base, err := r.path(scope)
	if err != nil {
		return endpoint{}, err
	}
	target := base
	if id != "" && !r.singleton {
		target = base + "/" + id
	}
	switch verb {
	case "create":
		return endpoint{http.MethodPost, base}, nil
	case "update":
		return endpoint{http.MethodPatch, target}, nil
	case "delete":
		if id == "" && !r.singleton {
			return endpoint{}, fmt.Errorf("delete needs an identifier")
		}
		return endpoint{http.MethodDelete, target}, nil
	default:
		return endpoint{http.MethodPost, target + "/" + verb}, nil
	}
}

// pastTense turns a verb into the form used in success messages.
func pastTense(verb string) string {
	switch {
	case strings.HasSuffix(verb, "e"):
		return verb + "d"
	case strings.HasSuffix(verb, "y"):
		return strings.TrimSuffix(verb, "y") + "ied"
	default:
		return verb + "ed"
	}
}
