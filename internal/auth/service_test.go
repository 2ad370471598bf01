package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nsda/portal/internal/config"
	"github.com/nsda/portal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(expiry time.Duration) *Service {
	return NewService(&config.Config{JWTSecret: "test-secret", JWTExpiry: expiry, BcryptCost: 4})
}

func TestPasswordRoundTrip(t *testing.T) {
	s := newTestService(time.Hour)

	hash, err := s.HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.NoError(t, s.CheckPassword(hash, "secret1"))
	assert.ErrorIs(t, s.CheckPassword(hash, "secret2"), ErrInvalidCredentials)
}

func TestTokenCarriesUser(t *testing.T) {
	s := newTestService(time.Hour)

	tok, err := s.GenerateToken(model.User{ID: "u1", Name: "Ada", Role: model.RoleAdmin})
	require.NoError(t, err)

	claims, err := s.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID())
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "Ada", claims.Name)
}

func TestValidateTokenRejects(t *testing.T) {
	s := newTestService(time.Hour)

	t.Run("garbage", func(t *testing.T) {
		_, err := s.ValidateToken("not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewService(&config.Config{JWTSecret: "other", JWTExpiry: time.Hour})
		tok, err := other.GenerateToken(model.User{ID: "u1", Role: model.RoleStudent})
		require.NoError(t, err)
		_, err = s.ValidateToken(tok)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		expired := newTestService(-time.Minute)
		tok, err := expired.GenerateToken(model.User{ID: "u1", Role: model.RoleStudent})
		require.NoError(t, err)
		_, err = s.ValidateToken(tok)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("none algorithm", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = s.ValidateToken(tok)
		assert.Error(t, err)
	})
}
