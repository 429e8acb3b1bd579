package repository

import (
	"court-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Court       CourtRepository
	Addon       AddonRepository
	Coach       CoachRepository
	Reservation ReservationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Court:       NewCourtRepository(db, log),
		Addon:       NewAddonRepository(db, log),
		Coach:       NewCoachRepository(db, log),
		Reservation: NewReservationRepository(db, log),
	}
}
