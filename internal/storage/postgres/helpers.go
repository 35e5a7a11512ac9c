package postgres

import "github.com/gatherly/server/internal/auth"

// roleSet converts stored role strings into a role set. Storage is trusted;
// validation happens at the API boundary.
func roleSet(values []string) auth.RoleSet {
	set := make(auth.RoleSet, len(values))
	for i, value := range values {
		set[i] = auth.Role(value)
	}
	return set
}
