package authz

import "context"

// Identity describes the authenticated actor for the lifetime of one
// request. It is derived once from the verified credential and never
// mutated afterwards.
type Identity struct {
	ID    int64
	Role  Role
	Name  string
	Email string
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context. The second return
// is false when no authentication gate ran for this request.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
