package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	// CreateIfSlotFree inserts the reservation unless a live reservation
	// already holds the same slot key. Returns false (and no error) when
	// the slot was taken; the partial unique index is the arbiter.
	CreateIfSlotFree(ctx context.Context, res *entity.Reservation) (bool, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	FindByRequesterID(ctx context.Context, requesterID uuid.UUID, limit, offset int) ([]*entity.Reservation, error)
	CountByRequesterID(ctx context.Context, requesterID uuid.UUID) (int64, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Reservation, error)
	Count(ctx context.Context) (int64, error)

	// Availability queries
	ExistsLiveSlot(ctx context.Context, key entity.SlotKey) (bool, error)
	FindLiveStartMinutes(ctx context.Context, courtID uuid.UUID, date time.Time) ([]int, error)

	// UpdateStatusVersioned applies a compare-and-swap status update.
	// Returns false (and no error) when no row matched id+expectedVersion.
	UpdateStatusVersioned(ctx context.Context, id uuid.UUID, status entity.ReservationStatus, expectedVersion int64) (bool, error)

	// CompleteElapsed promotes confirmed reservations whose slot ended at
	// or before cutoff. Returns the number of rows promoted.
	CompleteElapsed(ctx context.Context, cutoff time.Time) (int64, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationColumns = `id, reference, requester_id, court_id, play_date, start_minutes,
		end_minutes, addon_ids, coach_id, price_breakdown, status, version, created_at, updated_at`

func (r *reservationRepository) CreateIfSlotFree(ctx context.Context, res *entity.Reservation) (bool, error) {
	breakdown, err := json.Marshal(res.Price)
	if err != nil {
		return false, fmt.Errorf("marshal price breakdown: %w", err)
	}

	// The conflict target matches the partial unique index over live
	// reservations, so a cancelled reservation does not block the insert.
	query := `
		INSERT INTO reservations (id, reference, requester_id, court_id, play_date, start_minutes,
			end_minutes, addon_ids, coach_id, price_breakdown, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (court_id, play_date, start_minutes) WHERE status <> 'cancelled' DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query,
		res.ID,
		res.Reference,
		res.RequesterID,
		res.Slot.CourtID,
		res.Slot.Date,
		res.Slot.StartMinutes,
		res.EndMinutes,
		res.AddonIDs,
		res.CoachID,
		breakdown,
		res.Status,
		res.Version,
		res.CreatedAt,
		res.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("reference", res.Reference),
			zap.String("requester_id", res.RequesterID.String()),
		)
		return false, fmt.Errorf("create reservation %s: %w", res.Reference, err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("find reservation by ID %s: %w", id.String(), err)
	}

	return res, nil
}

func (r *reservationRepository) FindByRequesterID(ctx context.Context, requesterID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE requester_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, requesterID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reservations by requester ID",
			zap.Error(err),
			zap.String("requester_id", requesterID.String()),
		)
		return nil, fmt.Errorf("find reservations by requester ID %s: %w", requesterID.String(), err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func (r *reservationRepository) CountByRequesterID(ctx context.Context, requesterID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE requester_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, requesterID).Scan(&count); err != nil {
		r.log.Error("Failed to count reservations by requester ID",
			zap.Error(err),
			zap.String("requester_id", requesterID.String()),
		)
		return 0, fmt.Errorf("count reservations by requester ID %s: %w", requesterID.String(), err)
	}

	return count, nil
}

func (r *reservationRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		ORDER BY play_date, start_minutes
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find all reservations", zap.Error(err))
		return nil, fmt.Errorf("find all reservations: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func (r *reservationRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM reservations`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count reservations", zap.Error(err))
		return 0, fmt.Errorf("count reservations: %w", err)
	}

	return count, nil
}

func (r *reservationRepository) ExistsLiveSlot(ctx context.Context, key entity.SlotKey) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE court_id = $1 AND play_date = $2 AND start_minutes = $3 AND status <> 'cancelled'
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, key.CourtID, key.Date, key.StartMinutes).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check live slot",
			zap.Error(err),
			zap.String("court_id", key.CourtID.String()),
			zap.Time("play_date", key.Date),
			zap.Int("start_minutes", key.StartMinutes),
		)
		return false, fmt.Errorf("check live slot: %w", err)
	}

	return exists, nil
}

func (r *reservationRepository) FindLiveStartMinutes(ctx context.Context, courtID uuid.UUID, date time.Time) ([]int, error) {
	query := `
		SELECT start_minutes FROM reservations
		WHERE court_id = $1 AND play_date = $2 AND status <> 'cancelled'
	`

	rows, err := r.db.Query(ctx, query, courtID, date)
	if err != nil {
		r.log.Error("Failed to find live slot starts",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
			zap.Time("play_date", date),
		)
		return nil, fmt.Errorf("find live slot starts: %w", err)
	}
	defer rows.Close()

	var starts []int
	for rows.Next() {
		var start int
		if err := rows.Scan(&start); err != nil {
			return nil, fmt.Errorf("scan slot start: %w", err)
		}
		starts = append(starts, start)
	}

	return starts, nil
}

func (r *reservationRepository) UpdateStatusVersioned(ctx context.Context, id uuid.UUID, status entity.ReservationStatus, expectedVersion int64) (bool, error) {
	query := `
		UPDATE reservations
		SET status = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $3
	`

	tag, err := r.db.Exec(ctx, query, id, status, expectedVersion)
	if err != nil {
		r.log.Error("Failed to update reservation status",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
			zap.String("status", string(status)),
			zap.Int64("expected_version", expectedVersion),
		)
		return false, fmt.Errorf("update reservation %s status to %s: %w", id.String(), string(status), err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *reservationRepository) CompleteElapsed(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE reservations
		SET status = 'completed', version = version + 1, updated_at = NOW()
		WHERE status = 'confirmed'
		  AND play_date + make_interval(mins => end_minutes) <= $1
	`

	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		r.log.Error("Failed to complete elapsed reservations", zap.Error(err))
		return 0, fmt.Errorf("complete elapsed reservations: %w", err)
	}

	return tag.RowsAffected(), nil
}

// scanReservation reads one row in reservationColumns order.
func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	var breakdown []byte

	err := row.Scan(
		&res.ID,
		&res.Reference,
		&res.RequesterID,
		&res.Slot.CourtID,
		&res.Slot.Date,
		&res.Slot.StartMinutes,
		&res.EndMinutes,
		&res.AddonIDs,
		&res.CoachID,
		&breakdown,
		&res.Status,
		&res.Version,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(breakdown, &res.Price); err != nil {
		return nil, fmt.Errorf("unmarshal price breakdown: %w", err)
	}

	return &res, nil
}

func collectReservations(rows pgx.Rows) ([]*entity.Reservation, error) {
	var reservations []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, nil
}
