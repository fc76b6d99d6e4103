package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/planwise/planwise-api/internal/logging"
	"github.com/planwise/planwise-api/internal/user"
)

type fakeUserStore struct {
	byEmail map[string]*user.User
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type fakeRevoker struct {
	revoked map[string]time.Time
}

func (f *fakeRevoker) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	f.revoked[token] = expiresAt
	return nil
}

func newTestAuthService(t *testing.T) (*Service, *fakeUserStore, *fakeRevoker, uuid.UUID) {
	t.Helper()

	hasher := user.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("s3cret")
	require.NoError(t, err)

	userID := uuid.New()
	store := &fakeUserStore{byEmail: map[string]*user.User{
		"jane@example.com": {ID: userID, Email: "jane@example.com", PasswordHash: hash},
	}}

	tokens, err := NewJWTService(testSecret)
	require.NoError(t, err)

	revoker := &fakeRevoker{revoked: make(map[string]time.Time)}
	svc := NewService(store, hasher, tokens, revoker, logging.NewLogger(true), 48*time.Hour)
	return svc, store, revoker, userID
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	svc, _, _, userID := newTestAuthService(t)

	session, err := svc.Login(context.Background(), " Jane@Example.COM ", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, "jane@example.com", session.Email)
	assert.NotEmpty(t, session.Token)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), session.ExpiresAt, time.Minute)
}

func TestLogin_NonDisclosure(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestAuthService(t)

	// Unknown email and wrong password must be indistinguishable.
	_, unknownErr := svc.Login(context.Background(), "nobody@example.com", "s3cret")
	_, wrongErr := svc.Login(context.Background(), "jane@example.com", "wrong")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLogin_Validation(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "", "s3cret")
	assert.ErrorIs(t, err, user.ErrEmailInvalid)

	_, err = svc.Login(context.Background(), "not-an-email", "s3cret")
	assert.ErrorIs(t, err, user.ErrEmailInvalid)

	_, err = svc.Login(context.Background(), "jane@example.com", "  ")
	assert.ErrorIs(t, err, user.ErrPasswordRequired)
}

func TestLogout_RevokesVerifiableToken(t *testing.T) {
	t.Parallel()

	svc, _, revoker, _ := newTestAuthService(t)

	session, err := svc.Login(context.Background(), "jane@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), session.Token))
	assert.Contains(t, revoker.revoked, session.Token)
}

func TestLogout_IgnoresUnverifiableToken(t *testing.T) {
	t.Parallel()

	svc, _, revoker, _ := newTestAuthService(t)

	require.NoError(t, svc.Logout(context.Background(), "garbage"))
	assert.Empty(t, revoker.revoked)
}
