//go:build unit

package jwt

import (
	"testing"
	"time"

	"reservation-engine/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	svc := NewService("secret", time.Hour)
	id := uuid.New()

	t.Run("round trip", func(t *testing.T) {
		tok, err := svc.GenerateToken(id, user.RoleOperator)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(tok)
		require.NoError(t, err)
		assert.Equal(t, id, claims.UserID)
		assert.Equal(t, "operator", claims.Role)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := NewService("secret", -time.Minute).GenerateToken(id, user.RoleCustomer)
		require.NoError(t, err)

		_, err = svc.ValidateToken(tok)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("foreign signature", func(t *testing.T) {
		tok, err := NewService("other", time.Hour).GenerateToken(id, user.RoleCustomer)
		require.NoError(t, err)

		_, err = svc.ValidateToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := svc.ValidateToken("a.b.c")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID: uuid.New(),
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewService("secret", time.Hour).ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenFallsBackToSubject(t *testing.T) {
	id := uuid.New()
	claims := jwt.RegisteredClaims{
		Subject:   id.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, err := NewService("secret", time.Hour).ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, id, got.UserID)

	missingExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: id.String()})
	tok, err = missingExpiry.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = NewService("secret", time.Hour).ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
