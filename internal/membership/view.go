// internal/membership/view.go
package membership

import "fmt"

// View derives convenience queries from a fetched member listing. It holds
// no cache of its own; caching happens one layer down in the Client.
type View struct {
	// Members is the fetched listing
	Members []Member

	// ProfileURL is a template with a single %s placeholder for the
	// member's username
	ProfileURL string
}

// MemberNames returns all usernames, filtered to holders of role when role
// is non-empty.
func (v View) MemberNames(role string) []string {
	names := make([]string, 0, len(v.Members))
	for _, m := range v.Members {
		if role != "" && !hasRole(m, role) {
			continue
		}
		names = append(names, m.Username)
	}
	return names
}

// RolesFor returns the roles of the first member whose username matches
// exactly, or nil when the username is not in the listing.
func (v View) RolesFor(username string) []string {
	for _, m := range v.Members {
		if m.Username == username {
			return m.Roles
		}
	}
	return nil
}

// IsMember reports whether username appears in the listing.
func (v View) IsMember(username string) bool {
	for _, m := range v.Members {
		if m.Username == username {
			return true
		}
	}
	return false
}

// MemberURL returns the profile URL for username.
func (v View) MemberURL(username string) string {
	return fmt.Sprintf(v.ProfileURL, username)
}

func hasRole(m Member, role string) bool {
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}
