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

type AddonRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Addon, error)
	FindAllActive(ctx context.Context) ([]*entity.Addon, error)
}

type addonRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAddonRepository(db database.PgxIface, log *zap.Logger) AddonRepository {
	return &addonRepository{
		db:  db,
		log: log.With(zap.String("repository", "addon")),
	}
}

func (r *addonRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Addon, error) {
	query := `
		SELECT id, name, price, is_active, created_at
		FROM addons
		WHERE id = $1
	`

	var addon entity.Addon
	err := r.db.QueryRow(ctx, query, id).Scan(
		&addon.ID,
		&addon.Name,
		&addon.Price,
		&addon.IsActive,
		&addon.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find addon by ID",
			zap.Error(err),
			zap.String("addon_id", id.String()),
		)
		return nil, fmt.Errorf("find addon by ID %s: %w", id.String(), err)
	}

	return &addon, nil
}

func (r *addonRepository) FindAllActive(ctx context.Context) ([]*entity.Addon, error) {
	query := `
		SELECT id, name, price, is_active, created_at
		FROM addons
		WHERE is_active = true
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find active addons", zap.Error(err))
		return nil, fmt.Errorf("find active addons: %w", err)
	}
	defer rows.Close()

	var addons []*entity.Addon
	for rows.Next() {
		var addon entity.Addon
		err := rows.Scan(
			&addon.ID,
			&addon.Name,
			&addon.Price,
			&addon.IsActive,
			&addon.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan addon row", zap.Error(err))
			return nil, fmt.Errorf("scan addon row: %w", err)
		}
		addons = append(addons, &addon)
	}

	return addons, nil
}
