package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"court-booking/internal/apperror"
	"court-booking/internal/data/entity"
	"court-booking/internal/dto/request"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

// Create handles POST /api/reservations (identity required)
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := utils.GetRequesterIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservation, err := h.service.Reserve(r.Context(), requesterID, &req)
	if err != nil {
		h.handleServiceError(w, err, "create reservation")
		return
	}

	utils.ResponseCreated(w, "success", reservation)
}

// Transition handles PATCH /api/reservations/{id}/status (identity required)
func (h *ReservationHandler) Transition(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := utils.GetRequesterIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reservationID := chi.URLParam(r, "id")
	if reservationID == "" {
		utils.ResponseBadRequest(w, "Reservation ID is required", nil)
		return
	}

	var req request.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	target, valid := entity.ParseStatus(req.Status)
	if !valid {
		utils.ResponseBadRequest(w, "Unknown status", nil)
		return
	}

	isAdmin := utils.IsAdminFromContext(r.Context())

	reservation, err := h.service.Transition(r.Context(), reservationID, target, requesterID, isAdmin, req.ExpectedVersion)
	if err != nil {
		h.handleServiceError(w, err, "transition reservation")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// ListForRequester handles GET /api/user/reservations (identity required)
func (h *ReservationHandler) ListForRequester(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := utils.GetRequesterIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	reservations, err := h.service.ListForRequester(r.Context(), requesterID, req)
	if err != nil {
		h.handleServiceError(w, err, "list requester reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}

// ==================== ADMIN METHODS ====================

// ListAll handles GET /api/admin/reservations (admin only)
func (h *ReservationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	reservations, err := h.service.ListAll(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "list all reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}

// GetByID handles GET /api/admin/reservations/{id} (admin only)
func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	reservationID := chi.URLParam(r, "id")
	if reservationID == "" {
		utils.ResponseBadRequest(w, "Reservation ID is required", nil)
		return
	}

	reservation, err := h.service.GetByID(r.Context(), reservationID)
	if err != nil {
		h.handleServiceError(w, err, "get reservation by ID")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// handleServiceError maps typed service errors onto the response envelope
func (h *ReservationHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		h.log.Warn("Failed to "+operation,
			zap.String("code", appErr.Code),
			zap.Error(err),
		)
		utils.ResponseError(w, appErr.HTTPStatus, appErr.Message)
		return
	}

	h.log.Error("Failed to "+operation, zap.Error(err))
	utils.ResponseInternalError(w, "Internal server error")
}
