package jwt

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewJWTService("test-secret-key", "15m")

	tokenString, expiresAt, err := svc.GenerateAccessToken("emp-1", "company-1", "hr_admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.Positive(t, expiresAt)

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, "company-1", claims["company_id"])
	assert.Equal(t, "hr_admin", claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestGenerateAccessToken_BadExpiration(t *testing.T) {
	t.Parallel()

	svc := NewJWTService("test-secret-key", "not-a-duration")

	_, _, err := svc.GenerateAccessToken("emp-1", "company-1", "hr_admin")
	assert.Error(t, err)
}

func TestVerifyToken_WrongKeyRejected(t *testing.T) {
	t.Parallel()

	issuer := NewJWTService("issuer-key", "15m")
	verifier := NewJWTService("different-key", "15m")

	tokenString, _, err := issuer.GenerateAccessToken("emp-1", "company-1", "hr_admin")
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(verifier.JWTAuth(), tokenString)
	assert.Error(t, err)
}
