package shared

import "context"

// Principal is the authenticated identity reconstructed from access-token
// claims. It is request-scoped and never persisted.
type Principal struct {
	UserID      int64
	RoleID      *int64
	CollegeID   *int64
	Permissions []string
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
