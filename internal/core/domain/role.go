package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Role is a named authorization capability. Only the values declared below
// are valid; anything else is rejected at the boundary by ParseRole.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

var knownRoles = map[Role]struct{}{
	RoleAdmin: {},
	RoleUser:  {},
}

// KnownRoles returns every role the gateway understands, in stable order.
func KnownRoles() []Role {
	return []Role{RoleAdmin, RoleUser}
}

// ParseRole normalises s and checks it against the known roles. A "ROLE_"
// prefix is accepted and stripped.
func ParseRole(s string) (Role, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "ROLE_")
	r := Role(name)
	if _, ok := knownRoles[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

func (r Role) String() string { return string(r) }

// RoleSet is a sorted, duplicate-free collection of roles.
type RoleSet []Role

// NewRoleSet builds a RoleSet from already-validated roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, 0, len(roles))
	for _, r := range roles {
		if !slices.Contains(set, r) {
			set = append(set, r)
		}
	}
	slices.Sort(set)
	return set
}

// ParseRoleSet validates every name. The first unknown name aborts parsing.
func ParseRoleSet(names []string) (RoleSet, error) {
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return NewRoleSet(roles...), nil
}

// Has reports whether r is a member of the set.
func (s RoleSet) Has(r Role) bool {
	return slices.Contains(s, r)
}

// Intersects reports whether the two sets share at least one role.
func (s RoleSet) Intersects(other RoleSet) bool {
	for _, r := range other {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// Strings returns the role names, e.g. for JWT claims or storage.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}
