// Package auth provides permission-based access control for invocations.
package auth

import "strings"

// Permission names an action that can be controlled: "<command>.<verb>",
// "<command>.*" for every verb of a command, or "all".
type Permission string

// PermAll allows everything
const PermAll Permission = "all"

// ForCommand returns the permission guarding verb on command.
func ForCommand(command, verb string) Permission {
	return Permission(command + "." + verb)
}

// Command returns the command part of the permission.
func (p Permission) Command() string {
	if i := strings.IndexByte(string(p), '.'); i >= 0 {
		return string(p)[:i]
	}
	return string(p)
}

// Verb returns the verb part of the permission, or "" when there is none.
func (p Permission) Verb() string {
	if i := strings.IndexByte(string(p), '.'); i >= 0 {
		return string(p)[i+1:]
	}
	return ""
}

// wildcard returns the "<command>.*" form covering p.
func (p Permission) wildcard() Permission {
	return Permission(p.Command() + ".*")
}

// Policy maps permissions to the users and groups holding them.
type Policy struct {
	SuperUsers  []string            `mapstructure:"super_users" yaml:"super_users,omitempty" json:"super_users,omitempty"`
	UserGroups  map[string][]string `mapstructure:"user_groups" yaml:"user_groups,omitempty" json:"user_groups,omitempty"`
	Permissions map[string][]string `mapstructure:"permissions" yaml:"permissions,omitempty" json:"permissions,omitempty"`
}

// Empty reports whether the policy restricts nothing.
func (p *Policy) Empty() bool {
	return p == nil || (len(p.SuperUsers) == 0 && len(p.Permissions) == 0)
}
