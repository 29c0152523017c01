package serverutils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJwtSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseAdminToken(t *testing.T) {
	adminClaims := jwt.MapClaims{
		"role": "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}

	t.Run("accepts a valid admin token", func(t *testing.T) {
		tokenStr := signToken(t, testJwtSecret, adminClaims)
		assert.NoError(t, ParseAdminToken(tokenStr, testJwtSecret))
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		tokenStr := signToken(t, "other-secret", adminClaims)
		assert.Error(t, ParseAdminToken(tokenStr, testJwtSecret))
	})

	t.Run("rejects a token without the admin role", func(t *testing.T) {
		tokenStr := signToken(t, testJwtSecret, jwt.MapClaims{
			"role": "viewer",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		assert.Error(t, ParseAdminToken(tokenStr, testJwtSecret))
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		tokenStr := signToken(t, testJwtSecret, jwt.MapClaims{
			"role": "admin",
			"exp":  time.Now().Add(-time.Minute).Unix(),
		})
		assert.Error(t, ParseAdminToken(tokenStr, testJwtSecret))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		assert.Error(t, ParseAdminToken("not-a-jwt", testJwtSecret))
	})
}
