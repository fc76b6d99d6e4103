package recommendation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise-api/internal/user"
)

type fakeStore struct {
	records map[uuid.UUID]*Recommendation
	created *Recommendation
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[uuid.UUID]*Recommendation)}
}

func (f *fakeStore) List(ctx context.Context) ([]*Recommendation, error) {
	recs := make([]*Recommendation, 0, len(f.records))
	for _, rec := range f.records {
		recs = append(recs, rec)
	}
	return recs, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*Recommendation, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) Create(ctx context.Context, age int, income float64, dependents int, risk string, userID uuid.UUID) (*Recommendation, error) {
	rec := &Recommendation{
		ID:         uuid.New(),
		Age:        age,
		Income:     income,
		Dependents: dependents,
		Risk:       risk,
		UserID:     userID,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	f.records[rec.ID] = rec
	f.created = rec
	return rec, nil
}

func (f *fakeStore) Update(ctx context.Context, id uuid.UUID, age int, income float64, dependents int, risk string, userID uuid.UUID) (*Recommendation, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	rec.Age = age
	rec.Income = income
	rec.Dependents = dependents
	rec.Risk = risk
	rec.UserID = userID
	rec.UpdatedAt = time.Now()
	return rec, nil
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.records[id]; !ok {
		return ErrNotFound
	}
	delete(f.records, id)
	return nil
}

type fakeOwnerStore struct {
	users map[uuid.UUID]*user.User
}

func newFakeOwnerStore(ids ...uuid.UUID) *fakeOwnerStore {
	users := make(map[uuid.UUID]*user.User, len(ids))
	for _, id := range ids {
		users[id] = &user.User{ID: id, Email: "owner@example.com"}
	}
	return &fakeOwnerStore{users: users}
}

func (f *fakeOwnerStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func validInput() Input {
	return Input{Age: intPtr(30), Income: floatPtr(50_000), Dependents: intPtr(0), Risk: "high"}
}

func TestServiceCreate_BindsOwnerFromIdentity(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	store := newFakeStore()
	svc := NewService(store, newFakeOwnerStore(ownerID))

	created, plan, err := svc.Create(context.Background(), ownerID, validInput())
	require.NoError(t, err)

	assert.Equal(t, ownerID, created.UserID)
	assert.Equal(t, "Term Life – $500,000 for 20 years", plan.Plan)
}

func TestServiceCreate_MissingOwnerAccount(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewService(store, newFakeOwnerStore())

	_, _, err := svc.Create(context.Background(), uuid.New(), validInput())
	assert.ErrorIs(t, err, ErrOwnerMissing)
	assert.Nil(t, store.created, "nothing may be stored for a missing owner")
}

func TestServiceCreate_ValidationOrder(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	svc := NewService(newFakeStore(), newFakeOwnerStore(ownerID))

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{"missing age", Input{Income: floatPtr(1), Dependents: intPtr(0), Risk: "low"}, ErrAgeRequired},
		{"age above range", Input{Age: intPtr(151), Income: floatPtr(1), Dependents: intPtr(0), Risk: "low"}, ErrAgeOutOfRange},
		{"negative age", Input{Age: intPtr(-1), Income: floatPtr(1), Dependents: intPtr(0), Risk: "low"}, ErrAgeOutOfRange},
		{"missing income", Input{Age: intPtr(30), Dependents: intPtr(0), Risk: "low"}, ErrIncomeRequired},
		{"negative income", Input{Age: intPtr(30), Income: floatPtr(-5), Dependents: intPtr(0), Risk: "low"}, ErrIncomeNegative},
		{"missing dependents", Input{Age: intPtr(30), Income: floatPtr(1), Risk: "low"}, ErrDependentsRequired},
		{"negative dependents", Input{Age: intPtr(30), Income: floatPtr(1), Dependents: intPtr(-1), Risk: "low"}, ErrDependentsNegative},
		{"missing risk", Input{Age: intPtr(30), Income: floatPtr(1), Dependents: intPtr(0)}, ErrRiskRequired},
		{"unknown risk", Input{Age: intPtr(30), Income: floatPtr(1), Dependents: intPtr(0), Risk: "extreme"}, ErrRiskUnknown},
		{"first failing check wins", Input{Risk: "extreme"}, ErrAgeRequired},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := svc.Create(context.Background(), ownerID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestServiceCreate_NormalizesRisk(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	store := newFakeStore()
	svc := NewService(store, newFakeOwnerStore(ownerID))

	in := validInput()
	in.Risk = "  HIGH "

	created, _, err := svc.Create(context.Background(), ownerID, in)
	require.NoError(t, err)
	assert.Equal(t, "high", created.Risk)
}

func TestServiceUpdate_FullReplaceRejectsPartialInput(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	store := newFakeStore()
	svc := NewService(store, newFakeOwnerStore(ownerID))

	created, _, err := svc.Create(context.Background(), ownerID, validInput())
	require.NoError(t, err)

	// New risk but no dependents: dependents is still required.
	_, err = svc.Update(context.Background(), ownerID, created.ID, Input{
		Age:    intPtr(31),
		Income: floatPtr(55_000),
		Risk:   "medium",
	})
	assert.ErrorIs(t, err, ErrDependentsRequired)
}

func TestServiceUpdate_OverwritesAllApplicantFields(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	otherOwner := uuid.New()
	store := newFakeStore()
	svc := NewService(store, newFakeOwnerStore(ownerID, otherOwner))

	created, _, err := svc.Create(context.Background(), ownerID, validInput())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), otherOwner, created.ID, Input{
		Age:        intPtr(45),
		Income:     floatPtr(90_000),
		Dependents: intPtr(2),
		Risk:       "medium",
	})
	require.NoError(t, err)

	assert.Equal(t, 45, updated.Age)
	assert.Equal(t, 90_000.0, updated.Income)
	assert.Equal(t, 2, updated.Dependents)
	assert.Equal(t, "medium", updated.Risk)
	// Owner binding comes from the authenticated identity, not the payload.
	assert.Equal(t, otherOwner, updated.UserID)
}

func TestServiceUpdate_UnknownID(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	svc := NewService(newFakeStore(), newFakeOwnerStore(ownerID))

	_, err := svc.Update(context.Background(), ownerID, uuid.New(), validInput())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceDelete_UnknownID(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeStore(), newFakeOwnerStore())
	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), ErrNotFound)
}
