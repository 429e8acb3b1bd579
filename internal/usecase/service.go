package usecase

import (
	"court-booking/internal/data/repository"
	"court-booking/internal/pricing"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Court       CourtService
	Reservation ReservationService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	calculator := pricing.NewCalculator(pricing.Rules{
		PeakStartMinutes: config.Pricing.PeakStartHour * 60,
		PeakEndMinutes:   config.Pricing.PeakEndHour * 60,
		PeakSurcharge:    config.Pricing.PeakSurcharge,
		IndoorSurcharge:  config.Pricing.IndoorSurcharge,
	})

	return &Service{
		Court:       NewCourtService(repo, log),
		Reservation: NewReservationService(repo, calculator, config.Booking, NewRealClock(), log),
	}
}
