package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/internal/domain/entities"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", "shop-auth", "shop-service", time.Hour)
	verifier := NewTokenVerifier("secret", "shop-auth", "shop-service")

	token, err := issuer.Issue(entities.Identity{UserID: "user-1", IsSeller: true})
	require.NoError(t, err)

	identity, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.True(t, identity.IsSeller)
}

func TestVerifyRejects(t *testing.T) {
	verifier := NewTokenVerifier("secret", "shop-auth", "shop-service")

	expired := NewTokenIssuer("secret", "shop-auth", "shop-service", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tests := []struct {
		name   string
		issuer *TokenIssuer
		user   string
	}{
		{"wrong secret", NewTokenIssuer("other", "shop-auth", "shop-service", time.Hour), "user-1"},
		{"wrong issuer", NewTokenIssuer("secret", "someone-else", "shop-service", time.Hour), "user-1"},
		{"wrong audience", NewTokenIssuer("secret", "shop-auth", "billing", time.Hour), "user-1"},
		{"expired", expired, "user-1"},
		{"missing subject", NewTokenIssuer("secret", "shop-auth", "shop-service", time.Hour), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.issuer.Issue(entities.Identity{UserID: tt.user})
			require.NoError(t, err)

			_, err = verifier.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err := verifier.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc", want: "abc", ok: true},
		{header: "bearer abc", want: "abc", ok: true},
		{header: "BeArEr  abc ", want: "abc", ok: true},
		{header: "Bearer ", ok: false},
		{header: "Bearer", ok: false},
		{header: "Basic abc", ok: false},
		{header: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}
