package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmailInvalid            = errors.New("a valid email is required")
	ErrPasswordRequired        = errors.New("password is required")
	ErrConfirmPasswordRequired = errors.New("confirm password is required")
	ErrPasswordMismatch        = errors.New("password does not match")
)

// Store is the persistence surface the service needs.
// *Repository is the production implementation.
type Store interface {
	List(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, email, passwordHash string) (*User, error)
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles user business logic
type Service struct {
	store  Store
	hasher PasswordHasher
}

func NewService(store Store, hasher PasswordHasher) *Service {
	return &Service{store: store, hasher: hasher}
}

// List returns all users. Password hashes are excluded at serialization time.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.store.List(ctx)
}

// Get returns a single user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// Create registers a new user account.
// Validation is applied before any store access; the first failing
// check wins. The email must be unique case-insensitively.
func (s *Service) Create(ctx context.Context, email, password, confirmPassword string) (*User, error) {
	normalized, err := validateEmail(email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(password) == "" {
		return nil, ErrPasswordRequired
	}
	if strings.TrimSpace(confirmPassword) == "" {
		return nil, ErrConfirmPasswordRequired
	}
	if password != confirmPassword {
		return nil, ErrPasswordMismatch
	}

	// Pre-check for a friendlier error; the unique index remains the
	// backstop against concurrent registration.
	if _, err := s.store.GetByEmail(ctx, normalized); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.store.Create(ctx, normalized, passwordHash)
}

// UpdateEmail performs a full overwrite of the user's mutable field set,
// validated exactly like create.
func (s *Service) UpdateEmail(ctx context.Context, id uuid.UUID, email string) (*User, error) {
	normalized, err := validateEmail(email)
	if err != nil {
		return nil, err
	}

	return s.store.UpdateEmail(ctx, id, normalized)
}

// Delete removes a user account.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmail checks the address shape and returns the normalized form.
func validateEmail(email string) (string, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" || len(normalized) > 254 {
		return "", ErrEmailInvalid
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrEmailInvalid
	}
	return normalized, nil
}
