package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuer_Issue(t *testing.T) {
	issuer := NewJWTIssuer("test-secret")

	tokenString, err := issuer.Issue("user-1", "u@example.com", "user", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTVerifier_Verify(t *testing.T) {
	issuer := NewJWTIssuer("test-secret")
	verifier := NewJWTVerifier("test-secret")

	tokenString, err := issuer.Issue("user-42", "u@example.com", "admin", time.Hour)
	require.NoError(t, err)

	userID, err := verifier.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestJWTVerifier_Verify_wrong_secret(t *testing.T) {
	issuer := NewJWTIssuer("secret-a")
	verifier := NewJWTVerifier("secret-b")

	tokenString, err := issuer.Issue("user-1", "u@example.com", "user", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(tokenString)
	assert.Error(t, err)
}

func TestJWTVerifier_Verify_expired(t *testing.T) {
	issuer := NewJWTIssuer("test-secret")
	verifier := NewJWTVerifier("test-secret")

	tokenString, err := issuer.Issue("user-1", "u@example.com", "user", -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(tokenString)
	assert.Error(t, err)
}

func TestJWTVerifier_Verify_garbage(t *testing.T) {
	verifier := NewJWTVerifier("test-secret")

	_, err := verifier.Verify("not-a-token")
	assert.Error(t, err)
}
