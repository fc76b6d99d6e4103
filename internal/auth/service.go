package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planwise/planwise-api/internal/logging"
	"github.com/planwise/planwise-api/internal/user"
)

// ErrInvalidCredentials is returned for both unknown email and wrong
// password. A single error value keeps the two causes indistinguishable
// to callers.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the slice of user persistence the auth service needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// TokenRevoker invalidates issued tokens before their natural expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// Service handles authentication business logic
type Service struct {
	users    UserStore
	hasher   user.PasswordHasher
	tokens   TokenService
	revoker  TokenRevoker
	logger   *logging.Logger
	tokenTTL time.Duration
}

func NewService(
	users UserStore,
	hasher user.PasswordHasher,
	tokens TokenService,
	revoker TokenRevoker,
	logger *logging.Logger,
	tokenTTL time.Duration,
) *Service {
	return &Service{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		revoker:  revoker,
		logger:   logger,
		tokenTTL: tokenTTL,
	}
}

// Login verifies credentials and issues a session token embedding the
// user id and email.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	normalized := user.NormalizeEmail(email)
	if normalized == "" {
		return nil, user.ErrEmailInvalid
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return nil, user.ErrEmailInvalid
	}
	if strings.TrimSpace(password) == "" {
		return nil, user.ErrPasswordRequired
	}

	existing, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hasher.Compare(existing.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existing.ID, existing.Email, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &Session{
		Token:     token,
		UserID:    existing.ID,
		Email:     existing.Email,
		ExpiresAt: time.Now().Add(s.tokenTTL),
	}, nil
}

// Logout revokes the presented token for the remainder of its validity
// window. Revocation is best effort; an unverifiable token needs no
// denylist entry because validation already rejects it.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil
	}

	if err := s.revoker.Revoke(ctx, token, claims.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}
