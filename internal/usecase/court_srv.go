package usecase

import (
	"context"
	"fmt"

	"court-booking/internal/apperror"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CourtService interface {
	ListCourts(ctx context.Context) ([]response.CourtResponse, error)
	GetCourt(ctx context.Context, courtID string) (*response.CourtResponse, error)
}

type courtService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCourtService(repo *repository.Repository, log *zap.Logger) CourtService {
	return &courtService{
		repo: repo,
		log:  log.With(zap.String("service", "court")),
	}
}

func (s *courtService) ListCourts(ctx context.Context) ([]response.CourtResponse, error) {
	courts, err := s.repo.Court.FindAllActive(ctx)
	if err != nil {
		s.log.Error("Failed to list courts", zap.Error(err))
		return nil, fmt.Errorf("list courts: %w", err)
	}

	responses := make([]response.CourtResponse, len(courts))
	for i, court := range courts {
		responses[i] = response.CourtToResponse(court)
	}

	return responses, nil
}

func (s *courtService) GetCourt(ctx context.Context, courtID string) (*response.CourtResponse, error) {
	id, err := uuid.Parse(courtID)
	if err != nil {
		return nil, apperror.ErrNotFound.WithMessagef("court %s not found", courtID)
	}

	court, err := s.repo.Court.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get court %s: %w", courtID, err)
	}
	if court == nil {
		return nil, apperror.ErrNotFound.WithMessagef("court %s not found", courtID)
	}

	resp := response.CourtToResponse(court)
	return &resp, nil
}
