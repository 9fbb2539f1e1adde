package auth

import (
	"fmt"
	"os/user"
	"sort"

	"github.com/afc-network/afcctl/pkg/util"
)

// Checker validates user permissions against a Policy. With no policy
// configured every permission is granted.
type Checker struct {
	policy      *Policy
	currentUser string
}

// NewChecker creates a permission checker
func NewChecker(policy *Policy) *Checker {
	return &Checker{
		policy:      policy,
		currentUser: CurrentUsername(),
	}
}

// CurrentUsername returns the OS user running the process.
func CurrentUsername() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}

// SetUser overrides the current user (for testing or sudo)
func (c *Checker) SetUser(username string) {
	c.currentUser = username
}

// CurrentUser returns the current username
func (c *Checker) CurrentUser() string {
	return c.currentUser
}

// Authorize implements dispatch.Authorizer.
func (c *Checker) Authorize(username, permission string) error {
	if username == "" {
		username = c.currentUser
	}
	return c.CheckUser(username, Permission(permission))
}

// Check verifies if the current user has a permission
func (c *Checker) Check(permission Permission) error {
	return c.CheckUser(c.currentUser, permission)
}

// CheckUser verifies if a specific user has a permission
func (c *Checker) CheckUser(username string, permission Permission) error {
	if c.policy.Empty() || c.isSuperUser(username) {
		return nil
	}
	for _, key := range []Permission{PermAll, permission.wildcard(), permission} {
		if groups, ok := c.policy.Permissions[string(key)]; ok && c.userInGroups(username, groups) {
			return nil
		}
	}
	return &PermissionError{User: username, Permission: permission}
}

func (c *Checker) isSuperUser(username string) bool {
	if c.policy == nil {
		return false
	}
	for _, su := range c.policy.SuperUsers {
		if su == username {
			return true
		}
	}
	return false
}

func (c *Checker) userInGroups(username string, allowed []string) bool {
	for _, group := range allowed {
		if group == username {
			return true
		}
		for _, member := range c.policy.UserGroups[group] {
			if member == username {
				return true
			}
		}
	}
	return false
}

// ListPermissionsForUser returns the permissions granted to a user, sorted.
func (c *Checker) ListPermissionsForUser(username string) []Permission {
	if c.policy.Empty() || c.isSuperUser(username) {
		return []Permission{PermAll}
	}
	var perms []Permission
	for p, groups := range c.policy.Permissions {
		if c.userInGroups(username, groups) {
			perms = append(perms, Permission(p))
		}
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// GetUserGroups returns the groups a user belongs to, sorted.
func (c *Checker) GetUserGroups(username string) []string {
	if c.policy == nil {
		return nil
	}
	var groups []string
	for name, members := range c.policy.UserGroups {
		for _, m := range members {
			if m == username {
				groups = append(groups, name)
				break
			}
		}
	}
	sort.Strings(groups)
	return groups
}

// PermissionError represents a permission denial
type PermissionError struct {
	User       string
	Permission Permission
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user '%s' does not have '%s' permission", e.User, e.Permission)
}

func (e *PermissionError) Unwrap() error {
	return util.ErrPermissionDenied
}
