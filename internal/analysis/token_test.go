package analysis

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenVerifier(t *testing.T) {
	v := NewTokenVerifier("function-secret")

	t.Run("round trip", func(t *testing.T) {
		token, err := v.Issue("user:alice", "service", time.Minute)
		require.NoError(t, err)

		claims, err := v.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "user:alice", claims.Subject)
		assert.Equal(t, "service", claims.Role)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := v.Issue("user:alice", "", -time.Minute)
		require.NoError(t, err)
		_, err = v.Parse(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewTokenVerifier("other").Issue("user:alice", "", time.Minute)
		require.NoError(t, err)
		_, err = v.Parse(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("unsigned token", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = v.Parse(token)
		assert.Error(t, err)
	})

	t.Run("no secret configured", func(t *testing.T) {
		empty := NewTokenVerifier("")
		_, err := empty.Issue("x", "", time.Minute)
		assert.ErrorIs(t, err, ErrNoSecret)
		_, err = empty.Parse("anything")
		assert.ErrorIs(t, err, ErrNoSecret)
	})
}
