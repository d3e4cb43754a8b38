package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/AnthoniusHendriyanto/askastro-service/internal/astro/service TokenGenerator

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "askastro"

type TokenGenerator interface {
	Generate(email, name string) (string, time.Time, error)
	GetSessionExpiry() time.Duration
	VerifySessionToken(tokenString string) (*SessionClaims, error)
}

type TokenService struct {
	SessionSecret string
	SessionExpiry time.Duration
}

type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewTokenService(secret string, expiryMinutes int) *TokenService {
	return &TokenService{
		SessionSecret: secret,
		SessionExpiry: time.Duration(expiryMinutes) * time.Minute,
	}
}

// Generate signs a session token for email and returns it with its expiry.
func (ts *TokenService) Generate(email, name string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ts.SessionExpiry)

	claims := SessionClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.SessionSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

func (ts *TokenService) GetSessionExpiry() time.Duration {
	return ts.SessionExpiry
}

// VerifySessionToken parses and validates the given session token string.
func (ts *TokenService) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.SessionSecret), nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.Email == "" {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
