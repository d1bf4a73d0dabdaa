package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.Error(t, err)
	require.EqualError(t, err, "jwt: secret must be provided")
}

func TestIssueAndValidateAdminToken(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	svc, err := NewJWTService(JWTConfig{
		Secret:   "super-secret",
		Issuer:   "staffverify",
		TokenTTL: time.Hour,
		Clock:    now,
	})
	require.NoError(t, err)

	token, expiresAt, err := svc.IssueAdminToken(" ops@ajglobal ")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.True(t, expiresAt.Equal(current.Add(time.Hour)))

	claims, err := svc.ValidateAdminToken(token)
	require.NoError(t, err)
	require.Equal(t, "ops@ajglobal", claims.Subject)
	require.Equal(t, "staffverify", claims.Issuer)
	require.Equal(t, RoleAdmin, claims.Role)
	require.True(t, claims.IssuedAt.Time.Equal(current))
	require.True(t, claims.ExpiresAt.Time.Equal(current.Add(time.Hour)))
}

func TestIssueAdminTokenRequiresSubject(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "secret"})
	require.NoError(t, err)

	_, _, err = svc.IssueAdminToken("  ")
	require.Error(t, err)
}

func TestValidateAdminTokenInvalidSignature(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC) }

	issuer, err := NewJWTService(JWTConfig{Secret: "issuer-secret", TokenTTL: time.Minute, Clock: now})
	require.NoError(t, err)

	token, _, err := issuer.IssueAdminToken("ops")
	require.NoError(t, err)

	verifier, err := NewJWTService(JWTConfig{Secret: "other-secret", TokenTTL: time.Minute, Clock: now})
	require.NoError(t, err)

	_, err = verifier.ValidateAdminToken(token)
	require.Error(t, err)
	require.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid))
}

func TestValidateAdminTokenExpired(t *testing.T) {
	current := time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	svc, err := NewJWTService(JWTConfig{Secret: "secret", TokenTTL: time.Minute, Clock: now})
	require.NoError(t, err)

	token, _, err := svc.IssueAdminToken("ops")
	require.NoError(t, err)

	// Move time forward beyond expiry.
	current = current.Add(2 * time.Minute)

	_, err = svc.ValidateAdminToken(token)
	require.Error(t, err)
	require.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestValidateAdminTokenWrongIssuer(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC) }

	other, err := NewJWTService(JWTConfig{Secret: "shared", Issuer: "someone-else", Clock: now})
	require.NoError(t, err)
	token, _, err := other.IssueAdminToken("ops")
	require.NoError(t, err)

	svc, err := NewJWTService(JWTConfig{Secret: "shared", Issuer: "staffverify", Clock: now})
	require.NoError(t, err)

	_, err = svc.ValidateAdminToken(token)
	require.Error(t, err)
	require.True(t, errors.Is(err, jwt.ErrTokenInvalidIssuer))
}

func TestValidateAdminTokenRequiresAdminRole(t *testing.T) {
	now := time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)
	svc, err := NewJWTService(JWTConfig{Secret: "shared", Clock: func() time.Time { return now }})
	require.NoError(t, err)

	claims := &Claims{
		Role: "viewer",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("shared"))
	require.NoError(t, err)

	_, err = svc.ValidateAdminToken(token)
	require.EqualError(t, err, "jwt: token does not grant admin access")
}
