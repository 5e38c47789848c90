// internal/membership/view_test.go
package membership

import (
	"slices"
	"testing"
)

func testView() View {
	return View{
		Members: []Member{
			{Username: "alice", Roles: []string{"Moderator", "ProjectMember"}},
			{Username: "bob", Roles: []string{"ProjectMember"}},
			{Username: "carol", Roles: nil},
		},
		ProfileURL: "https://people.example.com/%s/profile",
	}
}

func TestMemberNames(t *testing.T) {
	v := testView()

	tests := []struct {
		name string
		role string
		want []string
	}{
		{"all members", "", []string{"alice", "bob", "carol"}},
		{"filtered by role", "Moderator", []string{"alice"}},
		{"shared role", "ProjectMember", []string{"alice", "bob"}},
		{"unknown role", "Owner", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.MemberNames(tt.role)
			if !slices.Equal(got, tt.want) {
				t.Errorf("MemberNames(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestRolesFor(t *testing.T) {
	v := testView()

	if got := v.RolesFor("alice"); !slices.Equal(got, []string{"Moderator", "ProjectMember"}) {
		t.Errorf("RolesFor(alice) = %v", got)
	}
	if got := v.RolesFor("carol"); len(got) != 0 {
		t.Errorf("RolesFor(carol) = %v, want empty", got)
	}
	if got := v.RolesFor("mallory"); got != nil {
		t.Errorf("RolesFor(mallory) = %v, want nil", got)
	}
	// Username matching is exact and case-sensitive.
	if got := v.RolesFor("Alice"); got != nil {
		t.Errorf("RolesFor(Alice) = %v, want nil", got)
	}
}

func TestIsMember(t *testing.T) {
	v := testView()

	if !v.IsMember("bob") {
		t.Error("IsMember(bob) = false, want true")
	}
	if v.IsMember("mallory") {
		t.Error("IsMember(mallory) = true, want false")
	}
	if v.IsMember("") {
		t.Error("IsMember(\"\") = true, want false")
	}
}

func TestMemberURL(t *testing.T) {
	v := testView()

	if got := v.MemberURL("alice"); got != "https://people.example.com/alice/profile" {
		t.Errorf("MemberURL(alice) = %q", got)
	}
}
