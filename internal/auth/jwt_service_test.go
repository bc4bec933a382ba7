package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, secret string, now func() time.Time) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:   secret,
		Issuer:   "chorebot",
		TokenTTL: time.Hour,
		Clock:    now,
	})
	require.NoError(t, err)
	return svc
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.EqualError(t, err, "jwt: secret must be provided")
}

func TestNewJWTServiceDefaultTTL(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "s"})
	require.NoError(t, err)
	require.Equal(t, DefaultTokenTTL, svc.TTL())
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newService(t, "super-secret", func() time.Time { return issuedAt })

	token, err := svc.Generate(42, "ann")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "ann", claims.Username)
	require.Equal(t, "42", claims.Subject)
	require.Equal(t, "chorebot", claims.Issuer)
	require.True(t, claims.ExpiresAt.Time.Equal(issuedAt.Add(time.Hour)))
}

func TestGenerateRequiresUser(t *testing.T) {
	svc := newService(t, "super-secret", nil)

	_, err := svc.Generate(0, "")
	require.Error(t, err)
}

func TestValidateInvalidSignature(t *testing.T) {
	now := func() time.Time { return issuedAt }
	token, err := newService(t, "issuer-secret", now).Generate(1, "")
	require.NoError(t, err)

	_, err = newService(t, "other-secret", now).Validate(token)
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestValidateExpired(t *testing.T) {
	current := issuedAt
	svc := newService(t, "super-secret", func() time.Time { return current })

	token, err := svc.Generate(1, "")
	require.NoError(t, err)

	current = issuedAt.Add(2 * time.Hour)
	_, err = svc.Validate(token)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateWrongIssuer(t *testing.T) {
	now := func() time.Time { return issuedAt }
	other, err := NewJWTService(JWTConfig{Secret: "super-secret", Issuer: "elsewhere", Clock: now})
	require.NoError(t, err)

	token, err := other.Generate(1, "")
	require.NoError(t, err)

	_, err = newService(t, "super-secret", now).Validate(token)
	require.EqualError(t, err, "jwt: invalid issuer")
}

func TestValidateEmpty(t *testing.T) {
	_, err := newService(t, "super-secret", nil).Validate("")
	require.Error(t, err)
}
