//go:build unit

package jwt_test

import (
	"testing"
	"time"

	pkgjwt "ticket-hold/internal/pkg/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims pkgjwt.Claims) string {
	t.Helper()
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifier_VerifyToken(t *testing.T) {
	verifier := pkgjwt.NewVerifier(testSecret)
	clientID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, testSecret, pkgjwt.Claims{
			ClientID: clientID,
			RegisteredClaims: gojwt.RegisteredClaims{
				ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		claims, err := verifier.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, clientID, claims.ClientID)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, pkgjwt.Claims{
			ClientID: clientID,
			RegisteredClaims: gojwt.RegisteredClaims{
				ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})

		_, err := verifier.VerifyToken(token)
		assert.ErrorIs(t, err, pkgjwt.ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", pkgjwt.Claims{
			ClientID: clientID,
			RegisteredClaims: gojwt.RegisteredClaims{
				ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		_, err := verifier.VerifyToken(token)
		assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
	})

	t.Run("missing client id", func(t *testing.T) {
		token := signToken(t, testSecret, pkgjwt.Claims{
			RegisteredClaims: gojwt.RegisteredClaims{
				ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		_, err := verifier.VerifyToken(token)
		assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := verifier.VerifyToken("not.a.token")
		assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
	})
}
