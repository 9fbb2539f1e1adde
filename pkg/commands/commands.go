// Package commands is the command table: one row per controller object
// type, declaring its verbs, payload schema and handlers.
package commands

import (
	"github.com/afc-network/afcctl/pkg/dispatch"
)

type binding struct {
	verb    string
	variant string
	handler dispatch.Handler
}

func on(verb string, h dispatch.Handler) binding {
	return binding{verb: verb, handler: h}
}

func onVariant(verb, variant string, h dispatch.Handler) binding {
	return binding{verb: verb, variant: variant, handler: h}
}

type row struct {
	command  dispatch.Command
	bindings []binding
}

func rows() []row {
	return []row{
		vlanRow(),
		vrfRow(),
		vrfBGPRow(),
		ospfRow(),
		ipInterfaceRow(),
		dhcpRelayRow(),
		dssRow(),
		integrationRow(),
		switchRow(),
		discoveryRow(),
		lagRow(),
		physicalInterfaceRow(),
		ntpRow(),
		snmpRow(),
		stpRow(),
		syslogRow(),
		routePolicyRow(),
	}
}

// Register adds every command and its handlers to r.
func Register(r *dispatch.Registry) error {
	for _, rw := range rows() {
		if err := r.Add(rw.command); err != nil {
			return err
		}
		for _, b := range rw.bindings {
			if err := r.Handle(rw.command.Name, b.verb, b.variant, b.handler); err != nil {
				return err
			}
		}
	}
	return nil
}

// NewRegistry returns the full command table, checked for completeness.
func NewRegistry() (*dispatch.Registry, error) {
	r := dispatch.NewRegistry()
	if err := Register(r); err != nil {
		return nil, err
	}
	if err := r.Check(); err != nil {
		return nil, err
	}
	return r, nil
}
