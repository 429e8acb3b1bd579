package usecase

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/apperror"
	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/internal/pricing"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationService interface {
	// Reserve grants the slot to at most one requester. For concurrent
	// calls on the same slot key exactly one succeeds; the rest observe
	// ErrSlotUnavailable.
	Reserve(ctx context.Context, requesterID uuid.UUID, req *request.CreateReservationRequest) (*response.ReservationResponse, error)

	// Transition applies one lifecycle status change under optimistic
	// concurrency control.
	Transition(ctx context.Context, reservationID string, target entity.ReservationStatus, callerID uuid.UUID, isAdmin bool, expectedVersion int64) (*response.ReservationResponse, error)

	ListAvailability(ctx context.Context, courtID string, date string) ([]response.SlotAvailabilityResponse, error)
	ListForRequester(ctx context.Context, requesterID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
	ListAll(ctx context.Context, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
	GetByID(ctx context.Context, reservationID string) (*response.ReservationResponse, error)

	// CompleteElapsed promotes confirmed reservations whose slot has ended.
	CompleteElapsed(ctx context.Context) (int64, error)
}

type reservationService struct {
	repo          *repository.Repository
	calculator    *pricing.Calculator
	cfg           utils.BookingConfig
	initialStatus entity.ReservationStatus
	clock         Clock
	log           *zap.Logger
}

func NewReservationService(
	repo *repository.Repository,
	calculator *pricing.Calculator,
	cfg utils.BookingConfig,
	clock Clock,
	log *zap.Logger,
) ReservationService {
	initialStatus := entity.StatusConfirmed
	if cfg.InitialStatus == string(entity.StatusPending) {
		initialStatus = entity.StatusPending
	}

	return &reservationService{
		repo:          repo,
		calculator:    calculator,
		cfg:           cfg,
		initialStatus: initialStatus,
		clock:         clock,
		log:           log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) Reserve(ctx context.Context, requesterID uuid.UUID, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reserve validation failed", zap.Any("errors", errs))
		return nil, apperror.ErrInvalidSlot.WithMessagef("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	slot, court, err := s.resolveSlot(ctx, req)
	if err != nil {
		return nil, err
	}

	// Advisory pre-check. Cheap rejection only; the partial unique index
	// is the arbiter when two requests race past this point.
	taken, err := s.repo.Reservation.ExistsLiveSlot(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("check slot availability: %w", err)
	}
	if taken {
		return nil, apperror.ErrSlotUnavailable.WithMessagef("slot %s %s on court %s is not available",
			slot.Date.Format("2006-01-02"), entity.FormatMinutes(slot.StartMinutes), court.Name)
	}

	addonIDs, coachID, input, err := s.resolveModifiers(ctx, court, req)
	if err != nil {
		return nil, err
	}

	breakdown := s.calculator.Quote(court.BasePrice, slot, input)

	now := s.clock.Now()
	reservation := &entity.Reservation{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Reference:   utils.GenerateReference(),
		RequesterID: requesterID,
		Slot:        slot,
		EndMinutes:  slot.EndMinutes(),
		AddonIDs:    addonIDs,
		CoachID:     coachID,
		Price:       breakdown,
		Status:      s.initialStatus,
		Version:     1,
	}

	inserted, err := s.repo.Reservation.CreateIfSlotFree(ctx, reservation)
	if err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	if !inserted {
		// Lost the race after the pre-check passed. Same error as the
		// early rejection so callers cannot tell the paths apart.
		return nil, apperror.ErrSlotUnavailable.WithMessagef("slot %s %s on court %s is not available",
			slot.Date.Format("2006-01-02"), entity.FormatMinutes(slot.StartMinutes), court.Name)
	}

	s.log.Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("reference", reservation.Reference),
		zap.String("requester_id", requesterID.String()),
		zap.String("court_id", court.ID.String()),
		zap.String("date", slot.Date.Format("2006-01-02")),
		zap.String("start_time", entity.FormatMinutes(slot.StartMinutes)),
		zap.Int64("total_price", breakdown.Total),
		zap.String("status", string(reservation.Status)),
	)

	resp := response.ReservationToResponse(reservation, court.Name)
	return &resp, nil
}

func (s *reservationService) Transition(ctx context.Context, reservationID string, target entity.ReservationStatus, callerID uuid.UUID, isAdmin bool, expectedVersion int64) (*response.ReservationResponse, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, apperror.ErrNotFound.WithMessagef("reservation %s not found", reservationID)
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load reservation %s: %w", reservationID, err)
	}
	if reservation == nil {
		return nil, apperror.ErrNotFound.WithMessagef("reservation %s not found", reservationID)
	}

	if err := s.authorizeTransition(reservation, target, callerID, isAdmin); err != nil {
		return nil, err
	}

	if !reservation.Status.CanTransitionTo(target) {
		return nil, apperror.ErrIllegalTransition.WithMessagef("cannot transition from %s to %s",
			reservation.Status, target)
	}

	updated, err := s.repo.Reservation.UpdateStatusVersioned(ctx, id, target, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("transition reservation %s: %w", reservationID, err)
	}
	if !updated {
		// Row exists but the version moved under the caller.
		return nil, apperror.ErrVersionConflict.WithMessagef("reservation %s changed since version %d",
			reservationID, expectedVersion)
	}

	s.log.Info("Reservation transitioned",
		zap.String("reservation_id", reservationID),
		zap.String("from", string(reservation.Status)),
		zap.String("to", string(target)),
		zap.Bool("by_admin", isAdmin),
	)

	return s.GetByID(ctx, reservationID)
}

// authorizeTransition enforces who may trigger which transition. Admins
// may perform any table-legal transition; a requester may only cancel
// their own reservation, and a confirmed one only before the slot starts.
func (s *reservationService) authorizeTransition(reservation *entity.Reservation, target entity.ReservationStatus, callerID uuid.UUID, isAdmin bool) error {
	if isAdmin {
		return nil
	}

	if reservation.RequesterID != callerID {
		return apperror.ErrUnauthorized.WithMessagef("reservation belongs to another requester")
	}

	if target != entity.StatusCancelled {
		return apperror.ErrUnauthorized.WithMessagef("only cancellation is allowed")
	}

	if reservation.Status == entity.StatusConfirmed && !s.clock.Now().Before(reservation.Slot.StartAt()) {
		return apperror.ErrUnauthorized.WithMessagef("cannot cancel after the slot has started")
	}

	return nil
}

func (s *reservationService) ListAvailability(ctx context.Context, courtID string, date string) ([]response.SlotAvailabilityResponse, error) {
	id, err := uuid.Parse(courtID)
	if err != nil {
		return nil, apperror.ErrNotFound.WithMessagef("court %s not found", courtID)
	}

	court, err := s.repo.Court.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load court %s: %w", courtID, err)
	}
	if court == nil || !court.IsActive {
		return nil, apperror.ErrNotFound.WithMessagef("court %s not found", courtID)
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, apperror.ErrInvalidSlot.WithMessagef("invalid date %q, expected YYYY-MM-DD", date)
	}

	starts, err := s.repo.Reservation.FindLiveStartMinutes(ctx, id, day)
	if err != nil {
		return nil, fmt.Errorf("load live slots: %w", err)
	}

	occupied := make(map[int]bool, len(starts))
	for _, start := range starts {
		occupied[start] = true
	}

	var slots []response.SlotAvailabilityResponse
	for hour := s.cfg.OpenHour; hour < s.cfg.CloseHour; hour++ {
		start := hour * 60
		slots = append(slots, response.SlotAvailabilityResponse{
			StartTime: entity.FormatMinutes(start),
			EndTime:   entity.FormatMinutes(start + entity.SlotDurationMinutes),
			Available: !occupied[start],
		})
	}

	return slots, nil
}

func (s *reservationService) ListForRequester(ctx context.Context, requesterID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	reservations, err := s.repo.Reservation.FindByRequesterID(ctx, requesterID, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reservations for requester %s: %w", requesterID.String(), err)
	}

	total, err := s.repo.Reservation.CountByRequesterID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("count reservations for requester %s: %w", requesterID.String(), err)
	}

	return response.NewPaginatedResponse(s.toResponses(ctx, reservations), page.Page, page.PerPage, total), nil
}

func (s *reservationService) ListAll(ctx context.Context, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	reservations, err := s.repo.Reservation.FindAll(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list all reservations: %w", err)
	}

	total, err := s.repo.Reservation.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	return response.NewPaginatedResponse(s.toResponses(ctx, reservations), page.Page, page.PerPage, total), nil
}

func (s *reservationService) GetByID(ctx context.Context, reservationID string) (*response.ReservationResponse, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, apperror.ErrNotFound.WithMessagef("reservation %s not found", reservationID)
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load reservation %s: %w", reservationID, err)
	}
	if reservation == nil {
		return nil, apperror.ErrNotFound.WithMessagef("reservation %s not found", reservationID)
	}

	resp := response.ReservationToResponse(reservation, s.courtName(ctx, reservation.Slot.CourtID))
	return &resp, nil
}

func (s *reservationService) CompleteElapsed(ctx context.Context) (int64, error) {
	promoted, err := s.repo.Reservation.CompleteElapsed(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("complete elapsed reservations: %w", err)
	}

	if promoted > 0 {
		s.log.Info("Elapsed reservations completed", zap.Int64("count", promoted))
	}

	return promoted, nil
}

// ==================== HELPER METHODS ====================

// resolveSlot validates the slot shape and returns the slot key with its
// court: existing active court, date not in the past, start on the hourly
// grid inside open hours.
func (s *reservationService) resolveSlot(ctx context.Context, req *request.CreateReservationRequest) (entity.SlotKey, *entity.Court, error) {
	courtID, err := uuid.Parse(req.CourtID)
	if err != nil {
		return entity.SlotKey{}, nil, apperror.ErrNotFound.WithMessagef("court %s not found", req.CourtID)
	}

	court, err := s.repo.Court.FindByID(ctx, courtID)
	if err != nil {
		return entity.SlotKey{}, nil, fmt.Errorf("load court %s: %w", req.CourtID, err)
	}
	if court == nil {
		return entity.SlotKey{}, nil, apperror.ErrNotFound.WithMessagef("court %s not found", req.CourtID)
	}
	if !court.IsActive {
		return entity.SlotKey{}, nil, apperror.ErrInvalidSlot.WithMessagef("court %s is not active", court.Name)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return entity.SlotKey{}, nil, apperror.ErrInvalidSlot.WithMessagef("invalid date %q, expected YYYY-MM-DD", req.Date)
	}

	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		return entity.SlotKey{}, nil, apperror.ErrInvalidSlot.WithMessagef("invalid start time %q, expected HH:MM", req.StartTime)
	}
	startMinutes := start.Hour()*60 + start.Minute()

	now := s.clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	slot := entity.NewSlotKey(courtID, date, startMinutes)

	if slot.Date.Before(today) {
		return entity.SlotKey{}, nil, apperror.ErrInvalidSlot.WithMessagef("date %s is in the past", req.Date)
	}

	if startMinutes%60 != 0 {
		return entity.SlotKey{}, nil, apperror.ErrInvalidSlot.WithMessagef("start time %s is not on the hourly grid", req.StartTime)
	}

	if startMinutes < s.cfg.OpenHour*60 || startMinutes >= s.cfg.CloseHour*60 {
		return entity.SlotKey{}, nil, apperror.ErrInvalidSlot.WithMessagef("start time %s is outside opening hours %02d:00-%02d:00",
			req.StartTime, s.cfg.OpenHour, s.cfg.CloseHour)
	}

	return slot, court, nil
}

// resolveModifiers turns addon/coach references into resolved pricing
// inputs. A bad reference aborts the whole attempt before any write.
func (s *reservationService) resolveModifiers(ctx context.Context, court *entity.Court, req *request.CreateReservationRequest) ([]uuid.UUID, *uuid.UUID, pricing.Input, error) {
	input := pricing.Input{CourtType: court.Type}

	addonIDs := make([]uuid.UUID, 0, len(req.AddonIDs))
	for _, addonIDStr := range req.AddonIDs {
		addonID, err := uuid.Parse(addonIDStr)
		if err != nil {
			return nil, nil, pricing.Input{}, apperror.ErrUnresolvedModifier.WithMessagef("addon %s not found", addonIDStr)
		}

		addon, err := s.repo.Addon.FindByID(ctx, addonID)
		if err != nil {
			return nil, nil, pricing.Input{}, fmt.Errorf("load addon %s: %w", addonIDStr, err)
		}
		if addon == nil || !addon.IsActive {
			return nil, nil, pricing.Input{}, apperror.ErrUnresolvedModifier.WithMessagef("addon %s not found", addonIDStr)
		}

		addonIDs = append(addonIDs, addonID)
		input.Addons = append(input.Addons, pricing.AddonCharge{Name: addon.Name, Price: addon.Price})
	}

	var coachID *uuid.UUID
	if req.CoachID != nil {
		id, err := uuid.Parse(*req.CoachID)
		if err != nil {
			return nil, nil, pricing.Input{}, apperror.ErrUnresolvedModifier.WithMessagef("coach %s not found", *req.CoachID)
		}

		coach, err := s.repo.Coach.FindByID(ctx, id)
		if err != nil {
			return nil, nil, pricing.Input{}, fmt.Errorf("load coach %s: %w", *req.CoachID, err)
		}
		if coach == nil || !coach.IsActive {
			return nil, nil, pricing.Input{}, apperror.ErrUnresolvedModifier.WithMessagef("coach %s not found", *req.CoachID)
		}

		coachID = &id
		input.Coach = &pricing.CoachCharge{Name: coach.Name, HourlyFee: coach.HourlyFee}
	}

	return addonIDs, coachID, input, nil
}

func (s *reservationService) toResponses(ctx context.Context, reservations []*entity.Reservation) []response.ReservationResponse {
	responses := make([]response.ReservationResponse, len(reservations))
	for i, reservation := range reservations {
		responses[i] = response.ReservationToResponse(reservation, s.courtName(ctx, reservation.Slot.CourtID))
	}
	return responses
}

func (s *reservationService) courtName(ctx context.Context, courtID uuid.UUID) string {
	court, _ := s.repo.Court.FindByID(ctx, courtID)
	if court == nil {
		return ""
	}
	return court.Name
}
