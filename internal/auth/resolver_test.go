package auth

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenFromAuthorizationHeader(t *testing.T) {
	testCases := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "valid", header: "Bearer abc.def", want: "abc.def"},
		{name: "basic scheme", header: "Basic dXNlcjpwdw==", wantErr: ErrInvalidAuthHeader},
		{name: "lowercase bearer", header: "bearer abc", wantErr: ErrInvalidAuthHeader},
		{name: "no token", header: "Bearer ", wantErr: ErrTokenIsEmpty},
		{name: "only spaces", header: "Bearer    ", wantErr: ErrTokenIsEmpty},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TokenFromAuthorizationHeader(tc.header)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	valid, err := issuer.Issue("user-1", "a@x.com")
	require.NoError(t, err)
	expired, err := NewTokenIssuer("secret", -time.Minute).Issue("user-1", "a@x.com")
	require.NoError(t, err)
	forged, err := NewTokenIssuer("other", time.Hour).Issue("user-1", "a@x.com")
	require.NoError(t, err)

	resolver := NewResolver(issuer, nil)
	ctx := context.Background()

	testCases := []struct {
		name   string
		header string
		want   Context
	}{
		{name: "no header", header: "", want: Anonymous()},
		{name: "wrong scheme", header: "Token " + valid, want: Anonymous()},
		{name: "malformed token", header: "Bearer garbage", want: Anonymous()},
		{name: "expired token", header: "Bearer " + expired, want: Anonymous()},
		{name: "bad signature", header: "Bearer " + forged, want: Anonymous()},
		{name: "valid token", header: "Bearer " + valid, want: Authenticated(Identity{UserID: "user-1", Email: "a@x.com"})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, resolver.Resolve(ctx, tc.header))
		})
	}
}

func TestResolver_AttachThenRequire(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	tok, err := issuer.Issue("user-9", "nine@x.com")
	require.NoError(t, err)
	resolver := NewResolver(issuer, nil)

	ctx := resolver.Attach(context.Background(), "Bearer "+tok)

	id, err := Require(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-9", id.UserID)
	assert.Equal(t, "nine@x.com", id.Email)
}

func TestRequire(t *testing.T) {
	t.Run("no context value", func(t *testing.T) {
		_, err := Require(context.Background())
		assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := Require(WithContext(context.Background(), Anonymous()))
		assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)
	})

	t.Run("authenticated without id", func(t *testing.T) {
		ctx := WithContext(context.Background(), Context{Authenticated: true})
		_, err := Require(ctx)
		assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)
	})

	t.Run("authenticated", func(t *testing.T) {
		ctx := WithContext(context.Background(), Authenticated(Identity{UserID: "u", Email: "u@x.com"}))
		id, err := Require(ctx)
		require.NoError(t, err)
		assert.Equal(t, Identity{UserID: "u", Email: "u@x.com"}, id)
	})
}
