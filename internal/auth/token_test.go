package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise-api/internal/config"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func tokenServices(t *testing.T) map[string]TokenService {
	t.Helper()

	jwtSvc, err := NewJWTService(testSecret)
	require.NoError(t, err)

	pasetoSvc, err := NewPasetoService(testSecret)
	require.NoError(t, err)

	return map[string]TokenService{
		"jwt":    jwtSvc,
		"paseto": pasetoSvc,
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	for name, svc := range tokenServices(t) {
		svc := svc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			token, err := svc.CreateToken(userID, "jane@example.com", time.Hour)
			require.NoError(t, err)

			claims, err := svc.VerifyToken(token)
			require.NoError(t, err)

			assert.Equal(t, userID.String(), claims.UserID)
			assert.Equal(t, "jane@example.com", claims.Email)
			assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
		})
	}
}

func TestTokenService_Expired(t *testing.T) {
	t.Parallel()

	for name, svc := range tokenServices(t) {
		svc := svc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			token, err := svc.CreateToken(uuid.New(), "jane@example.com", -time.Minute)
			require.NoError(t, err)

			_, err = svc.VerifyToken(token)
			assert.Error(t, err)
		})
	}
}

func TestTokenService_Malformed(t *testing.T) {
	t.Parallel()

	for name, svc := range tokenServices(t) {
		svc := svc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.VerifyToken("not-a-token")
			assert.Error(t, err)
		})
	}
}

func TestJWTService_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer, err := NewJWTService(testSecret)
	require.NoError(t, err)

	verifier, err := NewJWTService([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)

	token, err := issuer.CreateToken(uuid.New(), "jane@example.com", time.Hour)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ExpiredIsDistinguishedInternally(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testSecret)
	require.NoError(t, err)

	token, err := svc.CreateToken(uuid.New(), "jane@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestNewTokenService_DriverSelection(t *testing.T) {
	t.Parallel()

	jwtSvc, err := NewTokenService(config.AuthConfig{Secret: testSecret, TokenDriver: config.TokenDriverJWT})
	require.NoError(t, err)
	assert.IsType(t, &JWTService{}, jwtSvc)

	pasetoSvc, err := NewTokenService(config.AuthConfig{Secret: testSecret, TokenDriver: config.TokenDriverPaseto})
	require.NoError(t, err)
	assert.IsType(t, &PasetoService{}, pasetoSvc)

	_, err = NewTokenService(config.AuthConfig{Secret: testSecret, TokenDriver: "hmac"})
	assert.Error(t, err)
}

func TestNewTokenService_RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService([]byte("short"))
	assert.Error(t, err)

	_, err = NewPasetoService([]byte("short"))
	assert.Error(t, err)
}
