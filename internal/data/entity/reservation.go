package entity

import (
	"github.com/google/uuid"
)

type Reservation struct {
	Base
	Reference   string            `db:"reference"`
	RequesterID uuid.UUID         `db:"requester_id"`
	Slot        SlotKey           // court_id, play_date, start_minutes columns
	EndMinutes  int               `db:"end_minutes"`
	AddonIDs    []uuid.UUID       `db:"addon_ids"`
	CoachID     *uuid.UUID        `db:"coach_id"`
	Price       PriceBreakdown    `db:"price_breakdown"`
	Status      ReservationStatus `db:"status"`
	Version     int64             `db:"version"`
}
