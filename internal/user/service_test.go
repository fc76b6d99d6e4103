package user

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct {
	byID    map[uuid.UUID]*User
	byEmail map[string]*User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byID:    make(map[uuid.UUID]*User),
		byEmail: make(map[string]*User),
	}
}

func (f *fakeStore) List(ctx context.Context) ([]*User, error) {
	users := make([]*User, 0, len(f.byID))
	for _, u := range f.byID {
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) Create(ctx context.Context, email, passwordHash string) (*User, error) {
	if _, ok := f.byEmail[email]; ok {
		return nil, ErrDuplicateEmail
	}
	u := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.byID[u.ID] = u
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeStore) UpdateEmail(ctx context.Context, id uuid.UUID, email string) (*User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(f.byEmail, u.Email)
	u.Email = email
	u.UpdatedAt = time.Now()
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	u, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(f.byEmail, u.Email)
	delete(f.byID, id)
	return nil
}

// Tests use the minimum bcrypt cost to stay fast.
func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, NewBcryptHasher(bcrypt.MinCost)), store
}

func TestServiceCreate_NormalizesAndStoresHash(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), "  Jane.Doe@Example.COM ", "s3cret", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, "jane.doe@example.com", created.Email)
	assert.NotEqual(t, "s3cret", created.PasswordHash)

	// The stored hash verifies against the original plaintext and
	// nothing else.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("other")))
}

func TestServiceCreate_EmailUniquenessIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	svc, store := newTestService()

	_, err := svc.Create(context.Background(), "jane@example.com", "s3cret", "s3cret")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), " JANE@example.com ", "other1", "other1")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Len(t, store.byID, 1, "no duplicate row may exist")
}

func TestServiceCreate_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	tests := []struct {
		name            string
		email           string
		password        string
		confirmPassword string
		wantErr         error
	}{
		{"missing email", "", "pw", "pw", ErrEmailInvalid},
		{"malformed email", "not-an-email", "pw", "pw", ErrEmailInvalid},
		{"missing password", "jane@example.com", "", "pw", ErrPasswordRequired},
		{"blank password", "jane@example.com", "   ", "pw", ErrPasswordRequired},
		{"missing confirmation", "jane@example.com", "pw", "", ErrConfirmPasswordRequired},
		{"mismatched passwords", "jane@example.com", "pw1", "pw2", ErrPasswordMismatch},
		{"first failing check wins", "", "", "", ErrEmailInvalid},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Create(context.Background(), tt.email, tt.password, tt.confirmPassword)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestServiceUpdateEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), "jane@example.com", "pw", "pw")
	require.NoError(t, err)

	updated, err := svc.UpdateEmail(context.Background(), created.ID, " Jane.New@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "jane.new@example.com", updated.Email)

	_, err = svc.UpdateEmail(context.Background(), created.ID, "broken@")
	assert.ErrorIs(t, err, ErrEmailInvalid)

	_, err = svc.UpdateEmail(context.Background(), uuid.New(), "ok@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceDelete_UnknownID(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), ErrNotFound)
}

func TestUserJSON_NeverContainsPasswordHash(t *testing.T) {
	t.Parallel()

	u := &User{
		ID:           uuid.New(),
		Email:        "jane@example.com",
		PasswordHash: "super-secret-hash",
	}

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "super-secret-hash")
	assert.NotContains(t, string(raw), "password")
}
