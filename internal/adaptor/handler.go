package adaptor

import (
	"court-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Court       *CourtHandler
	Reservation *ReservationHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Court:       NewCourtHandler(service.Court, service.Reservation, log),
		Reservation: NewReservationHandler(service.Reservation, log),
	}
}
