package util

import (
	"reflect"
	"testing"
)

func TestExpandRange(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    []int
		wantErr bool
	}{
		{name: "single value", spec: "5", want: []int{5}},
		{name: "simple range", spec: "1-5", want: []int{1, 2, 3, 4, 5}},
		{name: "comma separated", spec: "1,3,5", want: []int{1, 3, 5}},
		{name: "mixed", spec: "1-3,5,7-9", want: []int{1, 2, 3, 5, 7, 8, 9}},
		{name: "with spaces", spec: "1 - 3, 5", want: []int{1, 2, 3, 5}},
		{name: "duplicates removed", spec: "1-3,2-4", want: []int{1, 2, 3, 4}},
		{name: "empty parts skipped", spec: "1, , 3", want: []int{1, 3}},
		{name: "empty string", spec: "", want: nil},
		{name: "invalid - start > end", spec: "5-1", wantErr: true},
		{name: "invalid - not a number", spec: "abc", wantErr: true},
		{name: "invalid - bad end value", spec: "1-abc", wantErr: true},
		{name: "invalid - bad range format", spec: "1-2-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandRange(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Errorf("ExpandRange(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
				return
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandRange(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestValidateVLANID(t *testing.T) {
	tests := []struct {
		id      int
		wantErr bool
	}{
		{1, false},
		{100, false},
		{4094, false},
		{0, true},
		{4095, true},
		{-5, true},
	}
	for _, tt := range tests {
		err := ValidateVLANID(tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVLANID(%d) error = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
	}
}

func TestExpandVLANRange(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    []int
		wantErr bool
	}{
		{name: "valid range", spec: "100-105,200", want: []int{100, 101, 102, 103, 104, 105, 200}},
		{name: "single vlan", spec: "100", want: []int{100}},
		{name: "invalid - vlan 0", spec: "0", wantErr: true},
		{name: "invalid - vlan too high", spec: "4095", wantErr: true},
		{name: "invalid - includes bad vlan", spec: "100-4095", wantErr: true},
		{name: "invalid - not a range", spec: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandVLANRange(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Errorf("ExpandVLANRange(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
				return
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandVLANRange(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

