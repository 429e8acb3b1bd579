package repository

import (
	"context"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CoachRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Coach, error)
}

type coachRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCoachRepository(db database.PgxIface, log *zap.Logger) CoachRepository {
	return &coachRepository{
		db:  db,
		log: log.With(zap.String("repository", "coach")),
	}
}

func (r *coachRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Coach, error) {
	query := `
		SELECT id, name, hourly_fee, is_active, created_at
		FROM coaches
		WHERE id = $1
	`

	var coach entity.Coach
	err := r.db.QueryRow(ctx, query, id).Scan(
		&coach.ID,
		&coach.Name,
		&coach.HourlyFee,
		&coach.IsActive,
		&coach.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find coach by ID",
			zap.Error(err),
			zap.String("coach_id", id.String()),
		)
		return nil, fmt.Errorf("find coach by ID %s: %w", id.String(), err)
	}

	return &coach, nil
}
