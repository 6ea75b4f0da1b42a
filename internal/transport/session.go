package transport

import (
	"context"

	"github.com/rpggio/revtrack/internal/domain/account"
)

type principalKey struct{}

// WithPrincipal returns ctx carrying the authenticated caller.
func WithPrincipal(ctx context.Context, p account.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller stored by AuthMiddleware. The zero
// Principal is unauthenticated.
func PrincipalFromContext(ctx context.Context) (account.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(account.Principal)
	return p, ok && p.Authenticated()
}
