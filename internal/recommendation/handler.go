package recommendation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/planwise/planwise-api/internal/auth"
	"github.com/planwise/planwise-api/internal/httputil"
	"github.com/planwise/planwise-api/internal/logging"
)

// Handler contains HTTP handlers for recommendation endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Request represents the applicant fields of a create or update body.
// Pointer fields let validation distinguish omitted values from zeros.
type Request struct {
	Age        *int     `json:"age"`
	Income     *float64 `json:"income"`
	Dependents *int     `json:"dependents"`
	Risk       string   `json:"risk"`
}

// CreateResponse embeds the stored record plus the derived plan string.
type CreateResponse struct {
	*Recommendation
	Message string `json:"message"`
}

// List handles GET /recommendations
// @Summary      List recommendations
// @Tags         recommendations
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.DataResponse
// @Failure      401 {object} httputil.MessageResponse
// @Router       /recommendations [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	recs, err := h.service.List(r.Context())
	if err != nil {
		logger.Error("failed to list recommendations", "error", err.Error())
		httputil.RespondError(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	httputil.RespondData(w, recs, http.StatusOK)
}

// Get handles GET /recommendation/{id}
// @Summary      Fetch a recommendation
// @Tags         recommendations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Recommendation ID"
// @Success      200 {object} httputil.DataResponse
// @Failure      404 {object} httputil.MessageResponse
// @Router       /recommendation/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, "recommendation not found", http.StatusNotFound)
		return
	}

	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "recommendation not found", http.StatusNotFound)
			return
		}
		logger.Error("failed to get recommendation", "error", err.Error())
		httputil.RespondError(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	httputil.RespondData(w, rec, http.StatusOK)
}

// Create handles POST /recommendation
// @Summary      Create a recommendation
// @Description  Store an applicant profile and return it with the derived plan
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body Request true "Applicant fields"
// @Success      201 {object} httputil.DataResponse
// @Failure      400 {object} httputil.MessageResponse
// @Failure      401 {object} httputil.MessageResponse
// @Router       /recommendation [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, plan, err := h.service.Create(r.Context(), ownerID, Input{
		Age:        req.Age,
		Income:     req.Income,
		Dependents: req.Dependents,
		Risk:       req.Risk,
	})
	if err != nil {
		h.respondServiceError(w, r, err, "failed to create recommendation")
		return
	}

	logger.Info("recommendation created", "recommendation_id", created.ID, "user_id", ownerID)
	httputil.RespondData(w, CreateResponse{
		Recommendation: created,
		Message:        plan.Plan,
	}, http.StatusCreated)
}

// Update handles PUT /recommendation/{id}
// @Summary      Replace a recommendation
// @Description  Full overwrite of the applicant fields; partial updates are rejected
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Recommendation ID"
// @Param        request body Request true "Applicant fields"
// @Success      200 {object} httputil.DataResponse
// @Failure      400 {object} httputil.MessageResponse
// @Failure      404 {object} httputil.MessageResponse
// @Router       /recommendation/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, "recommendation not found", http.StatusNotFound)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), ownerID, id, Input{
		Age:        req.Age,
		Income:     req.Income,
		Dependents: req.Dependents,
		Risk:       req.Risk,
	})
	if err != nil {
		h.respondServiceError(w, r, err, "failed to update recommendation")
		return
	}

	logger.Info("recommendation updated", "recommendation_id", updated.ID, "user_id", ownerID)
	httputil.RespondData(w, updated, http.StatusOK)
}

// Delete handles DELETE /recommendation/{id}
// @Summary      Delete a recommendation
// @Tags         recommendations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Recommendation ID"
// @Success      200 {object} httputil.MessageResponse
// @Failure      404 {object} httputil.MessageResponse
// @Router       /recommendation/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, "recommendation not found", http.StatusNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "recommendation not found", http.StatusNotFound)
			return
		}
		logger.Error("failed to delete recommendation", "error", err.Error())
		httputil.RespondError(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	logger.Info("recommendation deleted", "recommendation_id", id)
	httputil.RespondMessage(w, "recommendation has been deleted successfully", http.StatusOK)
}

// respondServiceError maps service errors from create/update to the envelope.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	logger := logging.GetLoggerFromContext(r.Context())

	switch {
	case isValidationError(err):
		logger.Warn("recommendation rejected", "error", err.Error())
		httputil.RespondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrOwnerMissing):
		logger.Warn("recommendation rejected: owner account missing")
		httputil.RespondError(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrNotFound):
		httputil.RespondError(w, "recommendation not found", http.StatusNotFound)
	default:
		logger.Error(logMsg, "error", err.Error())
		httputil.RespondError(w, "something went wrong", http.StatusInternalServerError)
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrAgeRequired) ||
		errors.Is(err, ErrAgeOutOfRange) ||
		errors.Is(err, ErrIncomeRequired) ||
		errors.Is(err, ErrIncomeNegative) ||
		errors.Is(err, ErrDependentsRequired) ||
		errors.Is(err, ErrDependentsNegative) ||
		errors.Is(err, ErrRiskRequired) ||
		errors.Is(err, ErrRiskUnknown)
}
