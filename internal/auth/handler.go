package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/planwise/planwise-api/internal/httputil"
	"github.com/planwise/planwise-api/internal/logging"
	"github.com/planwise/planwise-api/internal/ratelimit"
	"github.com/planwise/planwise-api/internal/user"
)

// IPLimiter throttles login attempts per client IP.
type IPLimiter interface {
	Allow(ctx context.Context, purpose, ip string) (bool, error)
}

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service      *Service
	limiter      IPLimiter
	isProduction bool
	tokenTTL     time.Duration
}

func NewHandler(service *Service, limiter IPLimiter, isProduction bool, tokenTTL time.Duration) *Handler {
	return &Handler{
		service:      service,
		limiter:      limiter,
		isProduction: isProduction,
		tokenTTL:     tokenTTL,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the payload inside the login success envelope.
type LoginResponse struct {
	Token  string    `json:"token"`
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
}

// Login handles POST /login
// @Summary      User login
// @Description  Authenticate with email and password and receive a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} httputil.DataResponse
// @Failure      400 {object} httputil.MessageResponse
// @Failure      401 {object} httputil.MessageResponse
// @Router       /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allow(r, "login") {
		httputil.RespondError(w, "too many requests, please try again later", http.StatusTooManyRequests)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailInvalid) || errors.Is(err, user.ErrPasswordRequired) {
			logger.Warn("login rejected", "error", err.Error())
			httputil.RespondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login rejected")
			httputil.RespondError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		logger.Error("login failed", "error", err.Error())
		httputil.RespondError(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in", "user_id", session.UserID)

	SetSessionCookie(w, session.Token, h.isProduction, h.tokenTTL)
	httputil.RespondData(w, LoginResponse{
		Token:  session.Token,
		UserID: session.UserID,
		Email:  session.Email,
	}, http.StatusOK)
}

// Logout handles POST /logout
// @Summary      User logout
// @Description  Revoke the current session token and clear the session cookie
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.MessageResponse
// @Failure      401 {object} httputil.MessageResponse
// @Router       /logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if token, ok := GetTokenFromContext(r.Context()); ok {
		if err := h.service.Logout(r.Context(), token); err != nil {
			logger.Warn("failed to revoke token", "error", err.Error())
			// Continue - still clear the cookie
		}
	}

	ClearSessionCookie(w)

	logger.Info("user logged out")
	httputil.RespondMessage(w, "logged out", http.StatusOK)
}

// allow checks the rate limit and fails open on limiter errors.
func (h *Handler) allow(r *http.Request, purpose string) bool {
	if h.limiter == nil {
		return true
	}

	ok, err := h.limiter.Allow(r.Context(), purpose, ratelimit.ClientIP(r))
	if err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("failed to check rate limit", "error", err.Error())
		return true
	}
	return ok
}
