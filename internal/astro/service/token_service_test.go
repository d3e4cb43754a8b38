package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name          string
		secret        string
		expiryMinutes int
	}{
		{name: "valid parameters", secret: "session-secret-key", expiryMinutes: 43200},
		{name: "empty secret", secret: "", expiryMinutes: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewTokenService(tt.secret, tt.expiryMinutes)

			assert.NotNil(t, ts)
			assert.Equal(t, tt.secret, ts.SessionSecret)
			assert.Equal(t, time.Duration(tt.expiryMinutes)*time.Minute, ts.SessionExpiry)
			assert.Equal(t, ts.SessionExpiry, ts.GetSessionExpiry())
		})
	}
}

func TestTokenService_Generate(t *testing.T) {
	tests := []struct {
		name   string
		email  string
		userNm string
	}{
		{name: "successful token generation", email: "star@example.com", userNm: "Star Gazer"},
		{name: "token without display name", email: "moon@example.com", userNm: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewTokenService("test-session-secret", 60)

			before := time.Now()
			token, expiry, err := ts.Generate(tt.email, tt.userNm)
			after := time.Now()

			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.True(t, expiry.After(before.Add(ts.SessionExpiry).Add(-time.Second)))
			assert.True(t, expiry.Before(after.Add(ts.SessionExpiry).Add(time.Second)))

			claims := &SessionClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
				return []byte("test-session-secret"), nil
			})
			require.NoError(t, err)
			assert.True(t, parsed.Valid)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.email, claims.Subject)
			assert.Equal(t, tt.userNm, claims.Name)
			assert.Equal(t, sessionIssuer, claims.Issuer)
		})
	}
}

func TestTokenService_VerifySessionToken(t *testing.T) {
	ts := NewTokenService("test-session-secret", 60)

	t.Run("valid token", func(t *testing.T) {
		token, _, err := ts.Generate("star@example.com", "Star")
		require.NoError(t, err)

		claims, err := ts.VerifySessionToken(token)
		require.NoError(t, err)
		assert.Equal(t, "star@example.com", claims.Email)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := NewTokenService("other-secret", 60).Generate("star@example.com", "Star")
		require.NoError(t, err)

		_, err = ts.VerifySessionToken(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := SessionClaims{
			Email: "star@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    sessionIssuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-session-secret"))
		require.NoError(t, err)

		_, err = ts.VerifySessionToken(token)
		assert.Error(t, err)
	})

	t.Run("non HMAC signing method", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{Email: "star@example.com"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ts.VerifySessionToken(token)
		assert.Error(t, err)
	})

	t.Run("missing email", func(t *testing.T) {
		claims := SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    sessionIssuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-session-secret"))
		require.NoError(t, err)

		_, err = ts.VerifySessionToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ts.VerifySessionToken("not-a-token")
		assert.Error(t, err)
	})
}
