package recommendation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/planwise/planwise-api/internal/user"
)

var (
	ErrAgeRequired        = errors.New("age is required")
	ErrAgeOutOfRange      = errors.New("age must be between 0 and 150")
	ErrIncomeRequired     = errors.New("income is required")
	ErrIncomeNegative     = errors.New("income must not be negative")
	ErrDependentsRequired = errors.New("number of dependents is required")
	ErrDependentsNegative = errors.New("number of dependents must not be negative")
	ErrRiskRequired       = errors.New("risk tolerance is required")
	ErrRiskUnknown        = errors.New("risk tolerance must be one of low, medium, high")

	// ErrOwnerMissing signals a valid token whose user record no longer
	// exists, e.g. a deleted account.
	ErrOwnerMissing = errors.New("owner account not found")
)

// Input carries the applicant fields of a create or full-replace
// request. Pointers distinguish omitted fields from zero values, so
// partial updates fail validation instead of silently defaulting.
type Input struct {
	Age        *int
	Income     *float64
	Dependents *int
	Risk       string
}

// Store is the persistence surface the service needs.
// *Repository is the production implementation.
type Store interface {
	List(ctx context.Context) ([]*Recommendation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Recommendation, error)
	Create(ctx context.Context, age int, income float64, dependents int, risk string, userID uuid.UUID) (*Recommendation, error)
	Update(ctx context.Context, id uuid.UUID, age int, income float64, dependents int, risk string, userID uuid.UUID) (*Recommendation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OwnerStore resolves the authenticated identity to a user record.
type OwnerStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Service handles recommendation business logic
type Service struct {
	store  Store
	owners OwnerStore
}

func NewService(store Store, owners OwnerStore) *Service {
	return &Service{store: store, owners: owners}
}

// List returns all recommendation records.
func (s *Service) List(ctx context.Context) ([]*Recommendation, error) {
	return s.store.List(ctx)
}

// Get returns a single recommendation by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Recommendation, error) {
	return s.store.GetByID(ctx, id)
}

// Create validates the applicant fields, binds ownership to the
// authenticated user and stores the record. The derived plan is
// returned alongside, never persisted.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in Input) (*Recommendation, Plan, error) {
	age, income, dependents, risk, err := validateInput(in)
	if err != nil {
		return nil, Plan{}, err
	}

	if err := s.authorizeOwner(ctx, ownerID); err != nil {
		return nil, Plan{}, err
	}

	created, err := s.store.Create(ctx, age, income, dependents, risk, ownerID)
	if err != nil {
		return nil, Plan{}, err
	}

	return created, Recommend(age, income, dependents, risk), nil
}

// Update performs a full overwrite of the applicant fields after the
// same validation and ownership binding as create. Partial updates are
// rejected by validation.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, in Input) (*Recommendation, error) {
	age, income, dependents, risk, err := validateInput(in)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	return s.store.Update(ctx, id, age, income, dependents, risk, ownerID)
}

// Delete removes a recommendation record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// authorizeOwner is the single authorization step shared by create and
// update: the identity in the token must still resolve to a user row.
func (s *Service) authorizeOwner(ctx context.Context, ownerID uuid.UUID) error {
	if _, err := s.owners.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrOwnerMissing
		}
		return fmt.Errorf("failed to load owner: %w", err)
	}
	return nil
}

// validateInput applies the request checks in a fixed order; the first
// failing check wins.
func validateInput(in Input) (age int, income float64, dependents int, risk string, err error) {
	if in.Age == nil {
		return 0, 0, 0, "", ErrAgeRequired
	}
	if *in.Age < 0 || *in.Age > 150 {
		return 0, 0, 0, "", ErrAgeOutOfRange
	}
	if in.Income == nil {
		return 0, 0, 0, "", ErrIncomeRequired
	}
	if *in.Income < 0 {
		return 0, 0, 0, "", ErrIncomeNegative
	}
	if in.Dependents == nil {
		return 0, 0, 0, "", ErrDependentsRequired
	}
	if *in.Dependents < 0 {
		return 0, 0, 0, "", ErrDependentsNegative
	}

	risk = strings.ToLower(strings.TrimSpace(in.Risk))
	if risk == "" {
		return 0, 0, 0, "", ErrRiskRequired
	}
	if risk != RiskLow && risk != RiskMedium && risk != RiskHigh {
		return 0, 0, 0, "", ErrRiskUnknown
	}

	return *in.Age, *in.Income, *in.Dependents, risk, nil
}
