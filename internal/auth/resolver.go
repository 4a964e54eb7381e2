package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/logging"
)

var (
	ErrInvalidAuthHeader = errors.New("authorization header must use Bearer scheme")
	ErrTokenIsEmpty      = errors.New("authorization token is empty")
)

const bearerPrefix = "Bearer "

// TokenFromAuthorizationHeader extracts the token from "Bearer <token>".
func TokenFromAuthorizationHeader(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", ErrTokenIsEmpty
	}
	return token, nil
}

type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// Resolver turns a raw Authorization header into an authentication Context.
// A missing or bad credential yields an anonymous context rather than an
// error, so public operations stay reachable; gated operations reject it
// through Require.
type Resolver struct {
	verifier TokenVerifier
	logger   logging.Logger
}

func NewResolver(verifier TokenVerifier, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Resolver{verifier: verifier, logger: logger}
}

func (r *Resolver) Resolve(ctx context.Context, header string) Context {
	if header == "" {
		return Anonymous()
	}

	token, err := TokenFromAuthorizationHeader(header)
	if err != nil {
		r.logger.Debug(ctx, "ignoring authorization header", "reason", err.Error())
		return Anonymous()
	}

	claims, err := r.verifier.Verify(token)
	if err != nil {
		r.logger.Debug(ctx, "token verification failed", "reason", err.Error())
		return Anonymous()
	}

	return Authenticated(Identity{UserID: claims.UserID, Email: claims.Email})
}

// Attach resolves the header and returns ctx carrying the result.
func (r *Resolver) Attach(ctx context.Context, header string) context.Context {
	return WithContext(ctx, r.Resolve(ctx, header))
}
