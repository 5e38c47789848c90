// internal/auth/context.go
package auth

import (
	"context"
)

// ContextKey is a type-safe key for context values
type ContextKey string

const (
	// IdentityContextKey is the key used to store the resolved identity
	IdentityContextKey ContextKey = "auth:identity"

	// ProjectRolesContextKey is the key used to store the identity's roles
	// within the request's target project
	ProjectRolesContextKey ContextKey = "auth:project_roles"

	// ProjectPolicyContextKey is the key used to store the target project's
	// permission policy
	ProjectPolicyContextKey ContextKey = "auth:project_policy"
)

// IdentityFromContext extracts the identity from the request context
func IdentityFromContext(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityContextKey).(*Identity); ok {
		return identity
	}
	return nil
}

// ContextWithIdentity adds an identity to a context
func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, identity)
}

// ProjectRolesFromContext extracts the project role set from the context
func ProjectRolesFromContext(ctx context.Context) []string {
	if roles, ok := ctx.Value(ProjectRolesContextKey).([]string); ok {
		return roles
	}
	return nil
}

// ContextWithProjectRoles adds a project role set to a context
func ContextWithProjectRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, ProjectRolesContextKey, roles)
}

// ProjectPolicyFromContext extracts the project policy from the context
func ProjectPolicyFromContext(ctx context.Context) string {
	if policy, ok := ctx.Value(ProjectPolicyContextKey).(string); ok {
		return policy
	}
	return ""
}

// ContextWithProjectPolicy adds a project policy to a context
func ContextWithProjectPolicy(ctx context.Context, policy string) context.Context {
	return context.WithValue(ctx, ProjectPolicyContextKey, policy)
}
