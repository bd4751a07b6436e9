// context.go

package gourdianauth

import "context"

// principalContextKey is the private key type for the request-scoped
// principal slot. A private type prevents collisions with other packages.
type principalContextKey struct{}

// WithPrincipal returns a copy of ctx carrying the authenticated principal.
//
// The slot is strictly request-scoped: each request derives its own context,
// so concurrent requests never observe each other's principal.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext returns the authenticated principal for the current
// request, or false when the request is unauthenticated.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || principal == nil {
		return nil, false
	}
	return principal, true
}

// CurrentUsername returns the name of the authenticated principal for the
// current request, or false when the request is unauthenticated.
func CurrentUsername(ctx context.Context) (string, bool) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return "", false
	}
	return principal.Name, true
}
