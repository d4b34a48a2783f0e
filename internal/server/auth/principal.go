package auth

import "context"

// Principal is the verified caller of a request. The zero value is the
// unresolved principal.
type Principal struct {
	LoginID string
}

// Resolved reports whether a verified identity stands behind the request.
func (p Principal) Resolved() bool { return p.LoginID != "" }

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal attached to ctx, or the unresolved
// principal when there is none.
func PrincipalFrom(ctx context.Context) Principal {
	p, _ := ctx.Value(principalKey{}).(Principal)
	return p
}
