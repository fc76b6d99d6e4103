package recommendation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/planwise/planwise-api/internal/database"
)

var ErrNotFound = errors.New("recommendation not found")

// Repository handles recommendation data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// List returns all recommendation records.
func (r *Repository) List(ctx context.Context) ([]*Recommendation, error) {
	var dbRecs []*database.Recommendation
	err := r.db.NewSelect().
		Model(&dbRecs).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}

	recs := make([]*Recommendation, 0, len(dbRecs))
	for _, dbr := range dbRecs {
		recs = append(recs, mapDBRecommendationToModel(dbr))
	}

	return recs, nil
}

// GetByID retrieves a recommendation by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Recommendation, error) {
	dbRec := new(database.Recommendation)
	err := r.db.NewSelect().
		Model(dbRec).
		Where("r.id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recommendation by id: %w", err)
	}

	return mapDBRecommendationToModel(dbRec), nil
}

// Create inserts a new recommendation owned by userID.
func (r *Repository) Create(ctx context.Context, age int, income float64, dependents int, risk string, userID uuid.UUID) (*Recommendation, error) {
	dbRec := &database.Recommendation{
		Age:        age,
		Income:     income,
		Dependents: dependents,
		Risk:       risk,
		UserID:     userID,
	}

	_, err := r.db.NewInsert().
		Model(dbRec).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation: %w", err)
	}

	return mapDBRecommendationToModel(dbRec), nil
}

// Update overwrites the four applicant fields and the owner binding,
// returning the persisted row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, age int, income float64, dependents int, risk string, userID uuid.UUID) (*Recommendation, error) {
	dbRec := new(database.Recommendation)
	result, err := r.db.NewUpdate().
		Model(dbRec).
		Set("age = ?", age).
		Set("income = ?", income).
		Set("dependents = ?", dependents).
		Set("risk = ?", risk).
		Set("user_id = ?", userID).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update recommendation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBRecommendationToModel(dbRec), nil
}

// Delete removes a recommendation by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.Recommendation)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete recommendation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBRecommendationToModel converts database model to domain model
func mapDBRecommendationToModel(dbr *database.Recommendation) *Recommendation {
	return &Recommendation{
		ID:         dbr.ID,
		Age:        dbr.Age,
		Income:     dbr.Income,
		Dependents: dbr.Dependents,
		Risk:       dbr.Risk,
		UserID:     dbr.UserID,
		CreatedAt:  dbr.CreatedAt,
		UpdatedAt:  dbr.UpdatedAt,
	}
}
