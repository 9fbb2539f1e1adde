package dispatch_test

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/util"
)

var vrfLikeSchema = dispatch.Schema{
	Fields: []dispatch.Field{
		dispatch.Str("name").Required(),
		dispatch.Str("fabric").Required(),
		dispatch.Int("vni"),
		dispatch.Str("route_distinguisher").Required().Default("loopback1:1"),
		dispatch.Str("max_cps_mode").OneOf("unlimited", "enabled").Default("unlimited"),
		dispatch.Bool("allow_session_reuse").Default(false),
		dispatch.List("switches", dispatch.TypeStr),
		dispatch.Dict("route_target",
			dispatch.Dict("primary_route_target",
				dispatch.Str("as_number"),
				dispatch.Str("route_mode").OneOf("import", "export", "both"),
			),
		),
		dispatch.ListOf("servers",
			dispatch.Str("address").Required(),
		),
	},
}

func validationErrors(t *testing.T, err error) []string {
	t.Helper()
	var ve *util.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v (%T), want *util.ValidationError", err, err)
	}
	return ve.Errors
}

func TestSchema_ValidateFillsDefaults(t *testing.T) {
	got, err := vrfLikeSchema.Validate("create", "", map[string]interface{}{
		"name":   "blue",
		"fabric": "dc1",
		"vni":    float64(10000),
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	want := map[string]interface{}{
		"name":                "blue",
		"fabric":              "dc1",
		"vni":                 10000,
		"route_distinguisher": "loopback1:1",
		"max_cps_mode":        "unlimited",
		"allow_session_reuse": false,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_ValidateCoercion(t *testing.T) {
	got, err := vrfLikeSchema.Validate("create", "", map[string]interface{}{
		"name":                "blue",
		"fabric":              "dc1",
		"vni":                 "20000",
		"allow_session_reuse": "yes",
		"switches":            "10.0.0.1, 10.0.0.2",
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	m := got.(map[string]interface{})
	if m["vni"] != 20000 {
		t.Errorf("vni = %#v, want 20000", m["vni"])
	}
	if m["allow_session_reuse"] != true {
		t.Errorf("allow_session_reuse = %#v, want true", m["allow_session_reuse"])
	}
	if diff := cmp.Diff([]interface{}{"10.0.0.1", "10.0.0.2"}, m["switches"]); diff != "" {
		t.Errorf("switches mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_ValidateAccumulatesErrors(t *testing.T) {
	_, err := vrfLikeSchema.Validate("create", "", map[string]interface{}{
		"fabric":       "dc1",
		"vni":          1.5,
		"max_cps_mode": "turbo",
		"colour":       "blue",
		"route_target": map[string]interface{}{
			"primary_route_target": map[string]interface{}{"route_mode": "sideways"},
		},
		"servers": []interface{}{map[string]interface{}{}},
	})
	msgs := validationErrors(t, err)
	joined := strings.Join(msgs, "\n")
	for _, want := range []string{
		"unsupported parameter 'colour'",
		"missing required parameter 'name'",
		"'vni' must be an integer",
		"'max_cps_mode' must be one of unlimited, enabled",
		"'route_target.primary_route_target.route_mode' must be one of",
		"missing required parameter 'servers[0].address'",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("errors missing %q:\n%s", want, joined)
		}
	}
}

func TestSchema_ValidateCheck(t *testing.T) {
	s := dispatch.Schema{Fields: []dispatch.Field{
		dispatch.Str("vlans").Checked(func(v interface{}) error {
			_, err := util.ExpandVLANRange(v.(string))
			return err
		}),
	}}

	if _, err := s.Validate("create", "", map[string]interface{}{"vlans": "10-20,30"}); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if _, err := s.Validate("create", "", map[string]interface{}{"vlans": "0-5000"}); err == nil {
		t.Error("Validate() should reject out-of-range VLANs")
	}
}

func TestSchema_Variants(t *testing.T) {
	s := dispatch.Schema{
		Fields:        []dispatch.Field{dispatch.Str("host").Required()},
		Discriminator: "type",
		Variants: []dispatch.Variant{
			{Name: "vmware_vsphere", Aliases: []string{"vm_vsphere"}, Verbs: []string{"create"},
				Fields: []dispatch.Field{dispatch.Bool("auto_discovery").Default(true)}},
			{Name: "pensando_psm", Verbs: []string{"create"}},
		},
	}

	got, err := s.Validate("create", "vm_vsphere", map[string]interface{}{"type": "vm_vsphere", "host": "vc.example.net"})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	want := map[string]interface{}{"type": "vmware_vsphere", "host": "vc.example.net", "auto_discovery": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
	}

	_, err = s.Validate("create", "pensando_psm", map[string]interface{}{"type": "pensando_psm", "host": "psm", "auto_discovery": true})
	msgs := validationErrors(t, err)
	if len(msgs) != 1 || !strings.Contains(msgs[0], "auto_discovery") {
		t.Errorf("errors = %v, want only auto_discovery rejected for psm", msgs)
	}
}

func TestSchema_ListPayload(t *testing.T) {
	s := dispatch.Schema{List: true, Fields: []dispatch.Field{
		dispatch.Str("switch").Required(),
		dispatch.ListOf("ports_config", dispatch.Str("name").Required()).Required(),
	}}

	tests := []struct {
		name    string
		data    interface{}
		wantErr bool
	}{
		{"valid", []interface{}{map[string]interface{}{
			"switch":       "leaf1",
			"ports_config": []interface{}{map[string]interface{}{"name": "1/1/1"}},
		}}, false},
		{"empty list", []interface{}{}, true},
		{"object instead of list", map[string]interface{}{"switch": "leaf1"}, true},
		{"element missing ports", []interface{}{map[string]interface{}{"switch": "leaf1"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Validate("create", "", tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSchema_RequiredFor(t *testing.T) {
	s := dispatch.Schema{Fields: []dispatch.Field{
		dispatch.Str("name").Required(),
		dispatch.ListOf("entry_list",
			dispatch.Str("host").Required(),
		).RequiredFor("create"),
		dispatch.Dict("address",
			dispatch.Str("ip").RequiredFor("create"),
		),
	}}

	tests := []struct {
		name     string
		verb     string
		data     map[string]interface{}
		wantErrs []string
	}{
		{"delete by name", "delete", map[string]interface{}{"name": "syslog-1"}, nil},
		{"create without entries", "create", map[string]interface{}{"name": "syslog-1"},
			[]string{"missing required parameter 'entry_list'"}},
		{"delete still needs name", "delete", map[string]interface{}{},
			[]string{"missing required parameter 'name'"}},
		{"nested field scoped to create", "delete", map[string]interface{}{
			"name":    "syslog-1",
			"address": map[string]interface{}{},
		}, nil},
		{"nested field on create", "create", map[string]interface{}{
			"name":       "syslog-1",
			"entry_list": []interface{}{map[string]interface{}{"host": "10.0.0.1"}},
			"address":    map[string]interface{}{},
		}, []string{"missing required parameter 'address.ip'"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Validate(tt.verb, "", tt.data)
			if tt.wantErrs == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if diff := cmp.Diff(tt.wantErrs, validationErrors(t, err)); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestField_MandatoryFor(t *testing.T) {
	f := dispatch.Int("as_number").RequiredFor("enable")
	if !f.MandatoryFor("enable") {
		t.Error("MandatoryFor(enable) = false, want true")
	}
	if f.MandatoryFor("disable") {
		t.Error("MandatoryFor(disable) = true, want false")
	}
	if !dispatch.Str("name").Required().MandatoryFor("delete") {
		t.Error("Required() field should be mandatory for every verb")
	}
	if dispatch.Str("name").MandatoryFor("create") {
		t.Error("optional field should never be mandatory")
	}
}

func TestSchema_SingleObjectForList(t *testing.T) {
	s := dispatch.Schema{Fields: []dispatch.Field{
		dispatch.ListOf("configuration",
			dispatch.Dict("mstp_config", dispatch.Str("config_name").Required()),
		),
	}}
	got, err := s.Validate("create", "", map[string]interface{}{
		"configuration": map[string]interface{}{
			"mstp_config": map[string]interface{}{"config_name": "region-1"},
		},
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	want := map[string]interface{}{
		"configuration": []interface{}{
			map[string]interface{}{"mstp_config": map[string]interface{}{"config_name": "region-1"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_ScalarForList(t *testing.T) {
	s := dispatch.Schema{Fields: []dispatch.Field{dispatch.List("native_vlan", dispatch.TypeStr)}}
	got, err := s.Validate("configure", "", map[string]interface{}{"native_vlan": 1})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if diff := cmp.Diff(map[string]interface{}{"native_vlan": []interface{}{"1"}}, got); diff != "" {
		t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_CheckOn(t *testing.T) {
	s := dispatch.Schema{
		Fields: []dispatch.Field{dispatch.Str("name").Required(), dispatch.List("fabrics", dispatch.TypeStr)},
		Check: func(data interface{}) error {
			if _, ok := data.(map[string]interface{})["fabrics"]; !ok {
				return errors.New("fabrics are required")
			}
			return nil
		},
		CheckOn: []string{"create"},
	}
	if _, err := s.Validate("create", "", map[string]interface{}{"name": "s1"}); err == nil {
		t.Error("Validate(create) should run the check")
	}
	if _, err := s.Validate("delete", "", map[string]interface{}{"name": "s1"}); err != nil {
		t.Errorf("Validate(delete) error = %v, want the check skipped", err)
	}
}

func TestSchema_IntegerBounds(t *testing.T) {
	s := dispatch.Schema{Fields: []dispatch.Field{dispatch.Int("vni")}}

	tests := []struct {
		name    string
		raw     interface{}
		wantErr bool
	}{
		{"whole float", float64(10000), false},
		{"negative float", float64(-5), false},
		{"fraction", 1.5, true},
		{"positive infinity", math.Inf(1), true},
		{"negative infinity", math.Inf(-1), true},
		{"not a number", math.NaN(), true},
		{"float above int range", 1e19, true},
		{"float below int range", -1e19, true},
		{"two to the sixty-third", math.Pow(2, 63), true},
		{"uint64 above int range", uint64(math.MaxUint64), true},
		{"uint64 in range", uint64(42), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Validate("create", "", map[string]interface{}{"vni": tt.raw})
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestSchema_NilPayloadReportsRequired(t *testing.T) {
	_, err := vrfLikeSchema.Validate("create", "", nil)
	msgs := validationErrors(t, err)
	if len(msgs) != 2 {
		t.Errorf("errors = %v, want name and fabric missing", msgs)
	}
}

func ExampleSchema_Validate() {
	s := dispatch.Schema{Fields: []dispatch.Field{
		dispatch.Str("name").Required(),
		dispatch.Int("agent_port").Default(161),
	}}
	out, _ := s.Validate("create", "", map[string]interface{}{"name": "snmp-1"})
	fmt.Println(out)
	// Output: map[agent_port:161 name:snmp-1]
}
