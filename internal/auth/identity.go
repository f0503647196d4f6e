package auth

import (
	"context"

	"github.com/avelasquez/courseapi/internal/models"
)

type ctxKey struct{}

// WithIdentity attaches the authenticated user to the request context.
func WithIdentity(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// IdentityFrom returns the authenticated user attached by the auth
// middleware, if any.
func IdentityFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.User)
	return u, ok
}
