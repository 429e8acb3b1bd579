package adaptor

import (
	"errors"
	"net/http"

	"court-booking/internal/apperror"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CourtHandler struct {
	courts       usecase.CourtService
	reservations usecase.ReservationService
	log          *zap.Logger
}

func NewCourtHandler(courts usecase.CourtService, reservations usecase.ReservationService, log *zap.Logger) *CourtHandler {
	return &CourtHandler{
		courts:       courts,
		reservations: reservations,
		log:          log.With(zap.String("handler", "court")),
	}
}

// List handles GET /api/courts (public)
func (h *CourtHandler) List(w http.ResponseWriter, r *http.Request) {
	courts, err := h.courts.ListCourts(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list courts")
		return
	}

	utils.ResponseSuccess(w, "success", courts)
}

// Get handles GET /api/courts/{id} (public)
func (h *CourtHandler) Get(w http.ResponseWriter, r *http.Request) {
	courtID := chi.URLParam(r, "id")
	if courtID == "" {
		utils.ResponseBadRequest(w, "Court ID is required", nil)
		return
	}

	court, err := h.courts.GetCourt(r.Context(), courtID)
	if err != nil {
		h.handleServiceError(w, err, "get court")
		return
	}

	utils.ResponseSuccess(w, "success", court)
}

// Availability handles GET /api/availability?court_id=&date= (public)
func (h *CourtHandler) Availability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	courtID := query.Get("court_id")
	date := query.Get("date")
	if courtID == "" || date == "" {
		utils.ResponseBadRequest(w, "court_id and date are required", nil)
		return
	}

	slots, err := h.reservations.ListAvailability(r.Context(), courtID, date)
	if err != nil {
		h.handleServiceError(w, err, "list availability")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

func (h *CourtHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
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
