// internal/membership/types.go
package membership

import (
	"context"
	"errors"
	"fmt"
)

// ClosedPolicy is the maximally restrictive project policy, substituted
// whenever the remote cannot report a real one.
const ClosedPolicy = "closed_policy"

// Member is one entry of a project's membership listing.
type Member struct {
	// Username is the member's login name
	Username string

	// Roles are the member's roles within the project
	Roles []string
}

// ProjectPolicy is a project's permission policy metadata.
type ProjectPolicy struct {
	Policy string
}

// ErrProjectNotFound indicates the remote reported the project as not found,
// typically because it is not fully provisioned yet. Callers recover from it
// locally (empty membership, closed policy); it is never cached.
var ErrProjectNotFound = errors.New("project not found")

// RemoteError is any non-success response from the membership service other
// than not-found. It is fatal to the request that triggered the lookup.
type RemoteError struct {
	// Project is the project the lookup was for
	Project string

	// Status is the HTTP status returned by the remote, 0 when the round
	// trip itself failed
	Status int

	// Hint suggests a likely cause for operators
	Hint string
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("error retrieving project %s: status %d", e.Project, e.Status)
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrProjectNotFound)
}

// Source answers membership queries for projects.
type Source interface {
	// Members returns the project's member listing. It fails with
	// ErrProjectNotFound when the remote reports the project missing and
	// with *RemoteError for any other non-success response.
	Members(ctx context.Context, project string) ([]Member, error)

	// Policy returns the project's policy metadata, with the same error
	// taxonomy as Members.
	Policy(ctx context.Context, project string) (ProjectPolicy, error)
}

// EmptySource is a Source with no projects: every member listing is empty
// and every policy is closed. Useful as a test double and as a fallback when
// no membership service is configured.
type EmptySource struct{}

func (EmptySource) Members(context.Context, string) ([]Member, error) {
	return nil, nil
}

func (EmptySource) Policy(context.Context, string) (ProjectPolicy, error) {
	return ProjectPolicy{Policy: ClosedPolicy}, nil
}
