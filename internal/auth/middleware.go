package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/planwise/planwise-api/internal/httputil"
	"github.com/planwise/planwise-api/internal/logging"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	UserIDContextKey    ContextKey = "user_id"
	UserEmailContextKey ContextKey = "user_email"
	TokenContextKey     ContextKey = "session_token"
)

// TokenDenylist is the revocation check consulted during validation.
type TokenDenylist interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
	denylist     TokenDenylist
}

func NewMiddleware(tokenService TokenService, denylist TokenDenylist) *Middleware {
	return &Middleware{tokenService: tokenService, denylist: denylist}
}

// RequireAuth validates the session credential and attaches the identity
// claims to the request context.
//
// The sessionId cookie takes precedence over the Authorization header.
// Every failure (missing, malformed, bad signature, expired, revoked)
// produces the same response so callers cannot tell which check failed.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := GetSessionTokenFromCookie(r)
		if err != nil || token == "" {
			token = bearerToken(r)
		}

		if token == "" {
			respondUnauthenticated(w)
			return
		}

		if m.denylist != nil {
			revoked, err := m.denylist.IsRevoked(r.Context(), token)
			if err != nil {
				logging.GetLoggerFromContext(r.Context()).Error("failed to check token revocation", "error", err.Error())
				respondUnauthenticated(w)
				return
			}
			if revoked {
				respondUnauthenticated(w)
				return
			}
		}

		claims, err := m.tokenService.VerifyToken(token)
		if err != nil {
			respondUnauthenticated(w)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			respondUnauthenticated(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		ctx = context.WithValue(ctx, UserEmailContextKey, claims.Email)
		ctx = context.WithValue(ctx, TokenContextKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the credential from the Authorization header.
// A "Bearer " prefix is stripped when present; otherwise the raw header
// value is used.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	const bearerPrefix = "Bearer "
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimSpace(authHeader[len(bearerPrefix):])
	}
	return authHeader
}

func respondUnauthenticated(w http.ResponseWriter) {
	httputil.RespondError(w, "Unauthenticated", http.StatusUnauthorized)
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	return userID, ok
}

// GetUserEmailFromContext extracts the user email from the request context
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailContextKey).(string)
	return email, ok
}

// GetTokenFromContext extracts the raw session token from the request context.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenContextKey).(string)
	return token, ok
}
