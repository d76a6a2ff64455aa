// Package requestctx carries the authenticated caller through request context.
package requestctx

import (
	"context"

	"github.com/davrell/tasklist/internal/user"
)

// userContextKey is the context key for the authenticated user record.
type userContextKey struct{}

// WithUser stores the resolved user in context.
func WithUser(ctx context.Context, u user.User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext returns the user stored in context, if any.
func UserFromContext(ctx context.Context) (user.User, bool) {
	if ctx == nil {
		return user.User{}, false
	}
	value, ok := ctx.Value(userContextKey{}).(user.User)
	return value, ok
}
