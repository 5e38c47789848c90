// internal/auth/types.go
package auth

import "slices"

// Base roles. Every identity carries exactly one of these, plus zero or more
// project roles gathered during enrichment.
const (
	RoleAuthenticated = "Authenticated"
	RoleAnonymous     = "Anonymous"
)

// Identity is the per-request resolved user. It is created fresh for each
// request, mutated only during role enrichment, and never persisted.
type Identity struct {
	// Username is the authenticated username, empty for anonymous requests
	Username string

	// Roles always contains RoleAuthenticated or RoleAnonymous plus any
	// project roles added during enrichment
	Roles []string

	// Email is a placeholder address derived from the username
	Email string
}

// Anonymous returns the identity every request starts with.
func Anonymous() *Identity {
	return &Identity{
		Username: "",
		Roles:    []string{RoleAnonymous},
		Email:    "null@example.com",
	}
}

// Authenticated returns an identity for a verified username with the base
// authenticated role and a derived placeholder email.
func Authenticated(username string) *Identity {
	return &Identity{
		Username: username,
		Roles:    []string{RoleAuthenticated},
		Email:    username + "@example.com",
	}
}

// IsAuthenticated reports whether this identity carries the authenticated role.
func (i *Identity) IsAuthenticated() bool {
	return i.HasRole(RoleAuthenticated)
}

// HasRole reports whether the identity holds the given role.
func (i *Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

// AddRoles unions the given roles into the identity's role set.
func (i *Identity) AddRoles(roles ...string) {
	for _, role := range roles {
		if !slices.Contains(i.Roles, role) {
			i.Roles = append(i.Roles, role)
		}
	}
}
