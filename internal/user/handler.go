package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/planwise/planwise-api/internal/httputil"
	"github.com/planwise/planwise-api/internal/logging"
	"github.com/planwise/planwise-api/internal/ratelimit"
)

// IPLimiter throttles registration attempts per client IP.
type IPLimiter interface {
	Allow(ctx context.Context, purpose, ip string) (bool, error)
}

// Handler contains HTTP handlers for user endpoints
type Handler struct {
	service *Service
	limiter IPLimiter
}

func NewHandler(service *Service, limiter IPLimiter) *Handler {
	return &Handler{service: service, limiter: limiter}
}

// CreateRequest represents the registration request body
type CreateRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UpdateRequest represents the email-change request body
type UpdateRequest struct {
	Email string `json:"email"`
}

// List handles GET /users
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.DataResponse
// @Failure      401 {object} httputil.MessageResponse
// @Router       /users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	users, err := h.service.List(r.Context())
	if err != nil {
		logger.Error("failed to list users", "error", err.Error())
		httputil.RespondError(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	httputil.RespondData(w, users, http.StatusOK)
}

// Get handles GET /user/{id}
// @Summary      Fetch a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} httputil.DataResponse
// @Failure      404 {object} httputil.MessageResponse
// @Router       /user/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, "user not found", http.StatusNotFound)
		return
	}

	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "user not found", http.StatusNotFound)
			return
		}
		logger.Error("failed to get user", "error", err.Error())
		httputil.RespondError(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	httputil.RespondData(w, found, http.StatusOK)
}

// Create handles POST /user
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateRequest true "Registration fields"
// @Success      201 {object} httputil.DataResponse
// @Failure      400 {object} httputil.MessageResponse
// @Router       /user [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allow(r, "register") {
		httputil.RespondError(w, "too many requests, please try again later", http.StatusTooManyRequests)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		if isValidationError(err) {
			logger.Warn("user creation rejected", "error", err.Error())
			httputil.RespondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Error("failed to create user", "error", err.Error())
		httputil.RespondError(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	logger.Info("user created", "user_id", created.ID)
	httputil.RespondData(w, created, http.StatusCreated)
}

// Update handles PUT/PATCH /user/{id}
// @Summary      Update a user's email
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body UpdateRequest true "New email"
// @Success      200 {object} httputil.DataResponse
// @Failure      400 {object} httputil.MessageResponse
// @Failure      404 {object} httputil.MessageResponse
// @Router       /user/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, "user not found", http.StatusNotFound)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateEmail(r.Context(), id, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httputil.RespondError(w, "user not found", http.StatusNotFound)
		case isValidationError(err):
			logger.Warn("user update rejected", "error", err.Error())
			httputil.RespondError(w, err.Error(), http.StatusBadRequest)
		default:
			logger.Error("failed to update user", "error", err.Error())
			httputil.RespondError(w, "something went wrong", http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondData(w, updated, http.StatusOK)
}

// Delete handles DELETE /user/{id}
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} httputil.MessageResponse
// @Failure      404 {object} httputil.MessageResponse
// @Router       /user/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, "user not found", http.StatusNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "user not found", http.StatusNotFound)
			return
		}
		logger.Error("failed to delete user", "error", err.Error())
		httputil.RespondError(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	logger.Info("user deleted", "user_id", id)
	httputil.RespondMessage(w, "user deleted successfully", http.StatusOK)
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

func isValidationError(err error) bool {
	return errors.Is(err, ErrEmailInvalid) ||
		errors.Is(err, ErrPasswordRequired) ||
		errors.Is(err, ErrConfirmPasswordRequired) ||
		errors.Is(err, ErrPasswordMismatch) ||
		errors.Is(err, ErrDuplicateEmail)
}
