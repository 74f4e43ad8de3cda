package service

import (
	"errors"
	"log"
	"time"

	"spellquiz/internal/security"
)

var ErrInvalidAccessCode = errors.New("invalid access code")

// AuthService grants teacher-dashboard tokens in exchange for the shared
// access code or a completed OAuth sign-in
type AuthService struct {
	accessCodeHash string
	issuer         *security.TokenIssuer
}

// NewAuthService hashes the configured access code and prepares the token
// issuer. An empty access code disables code-based login.
func NewAuthService(accessCode, tokenSecret string, tokenDuration time.Duration) (*AuthService, error) {
	s := &AuthService{
		issuer: security.NewTokenIssuer(tokenSecret, tokenDuration),
	}

	if accessCode == "" {
		log.Println("Teacher access code not configured: code login disabled")
		return s, nil
	}

	hash, err := security.HashAccessCode(accessCode)
	if err != nil {
		return nil, err
	}
	s.accessCodeHash = hash
	return s, nil
}

// LoginWithAccessCode exchanges the shared access code for a signed token
func (s *AuthService) LoginWithAccessCode(code string) (string, error) {
	if s.accessCodeHash == "" || !security.CheckAccessCode(s.accessCodeHash, code) {
		return "", ErrInvalidAccessCode
	}
	return s.issuer.Issue("teacher")
}

// LoginWithIdentity issues a token for an externally verified identity,
// e.g. a completed OAuth sign-in
func (s *AuthService) LoginWithIdentity(subject string) (string, error) {
	return s.issuer.Issue(subject)
}

// VerifyToken checks a dashboard token and returns its subject
func (s *AuthService) VerifyToken(token string) (string, error) {
	return s.issuer.Verify(token)
}
