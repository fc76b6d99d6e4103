package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/planwise/planwise-api/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenClaims represents the identity facts carried by a session token.
type TokenClaims struct {
	UserID    string    `json:"user_id"` // UUID stored as string in token
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
type TokenService interface {
	CreateToken(userID uuid.UUID, email string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// NewTokenService builds the token service selected by configuration.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	switch cfg.TokenDriver {
	case config.TokenDriverJWT:
		return NewJWTService(cfg.Secret)
	case config.TokenDriverPaseto:
		return NewPasetoService(cfg.Secret)
	default:
		return nil, fmt.Errorf("unknown token driver %q", cfg.TokenDriver)
	}
}
