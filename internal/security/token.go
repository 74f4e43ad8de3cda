package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer creates and verifies the signed tokens that guard the
// teacher dashboard API
type TokenIssuer struct {
	secret   []byte
	duration time.Duration
}

type dashboardClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func NewTokenIssuer(secret string, duration time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), duration: duration}
}

// Issue creates a signed teacher token for the given subject
func (t *TokenIssuer) Issue(subject string) (string, error) {
	now := time.Now()
	claims := dashboardClaims{
		Role: "teacher",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns its subject when valid
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))

	claims := &dashboardClaims{}
	parsed, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Role != "teacher" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
