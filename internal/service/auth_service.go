package service

import (
	"fmt"
	"time"

	"quiz-builder/internal/config"
	"quiz-builder/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const sessionTokenType = "session"

// SessionClaims are the JWT claims carried by a session token.
type SessionClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// AuthService issues and validates the bearer tokens that tie an anonymous
// caller to a quiz session. There are no user accounts; holding the token is
// holding the session.
type AuthService struct {
	secret []byte
	ttl    time.Duration
}

func NewAuthService(cfg *config.Config) (*AuthService, error) {
	if cfg.Auth.SessionSecret == "" {
		return nil, fmt.Errorf("session secret is not configured")
	}
	return &AuthService{
		secret: []byte(cfg.Auth.SessionSecret),
		ttl:    cfg.Auth.SessionTTL,
	}, nil
}

// IssueSessionToken signs a token whose subject is the session ID.
func (a *AuthService) IssueSessionToken(sessionID string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		TokenType: sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ValidateSessionToken verifies the signature and expiry and returns the
// session ID the token grants access to.
func (a *AuthService) ValidateSessionToken(tokenString string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", domain.NewUnauthorizedError("invalid session token")
	}
	if !token.Valid || claims.TokenType != sessionTokenType || claims.Subject == "" {
		return "", domain.NewUnauthorizedError("invalid session token")
	}
	return claims.Subject, nil
}
