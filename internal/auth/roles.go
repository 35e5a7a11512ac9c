package auth

import "strings"

type Role string

const (
	RoleUser      Role = "ROLE_USER"
	RoleOrganizer Role = "ROLE_ORGANIZER"
	RoleAdmin     Role = "ROLE_ADMIN"
)

// ParseRole validates a role string against the fixed enum. Unknown values
// are rejected at the boundary rather than stored as free text.
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleUser:
		return RoleUser, true
	case RoleOrganizer:
		return RoleOrganizer, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// RoleSet is an unordered collection of roles. A stored user always holds
// at least one.
type RoleSet []Role

func ParseRoleSet(values []string) (RoleSet, bool) {
	set := make(RoleSet, 0, len(values))
	for _, value := range values {
		role, ok := ParseRole(value)
		if !ok {
			return nil, false
		}
		if !set.Has(role) {
			set = append(set, role)
		}
	}
	return set, true
}

func (s RoleSet) Has(role Role) bool {
	for _, candidate := range s {
		if candidate == role {
			return true
		}
	}
	return false
}

func (s RoleSet) IsAdmin() bool {
	return s.Has(RoleAdmin)
}

func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, role := range s {
		out[i] = string(role)
	}
	return out
}

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	UserID string
	Roles  RoleSet
}
