package auth

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

// Identity is the principal a request acts as.
type Identity struct {
	UserID string
	Email  string
}

// Context is the per-request authentication result. The zero value is anonymous.
type Context struct {
	Authenticated bool
	Identity      Identity
}

func Anonymous() Context {
	return Context{}
}

func Authenticated(id Identity) Context {
	return Context{Authenticated: true, Identity: id}
}

type contextKey int

const authContextKey contextKey = iota

// WithContext attaches the authentication result to ctx.
func WithContext(ctx context.Context, ac Context) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}

// FromContext returns the attached authentication result; requests that never
// went through the resolver are anonymous.
func FromContext(ctx context.Context) Context {
	ac, ok := ctx.Value(authContextKey).(Context)
	if !ok {
		return Anonymous()
	}
	return ac
}

// Require is the authorization gate run at the top of every operation that
// needs a principal. It never touches the store.
func Require(ctx context.Context) (Identity, error) {
	ac := FromContext(ctx)
	if !ac.Authenticated || ac.Identity.UserID == "" {
		return Identity{}, domain.ErrAuthenticationRequired
	}
	return ac.Identity, nil
}
