package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SlotDurationMinutes is the fixed length of every bookable slot.
const SlotDurationMinutes = 60

// SlotKey identifies one bookable unit: a court on a calendar date at a
// start time. Equality is structural; at most one live reservation may
// hold a given key.
type SlotKey struct {
	CourtID      uuid.UUID
	Date         time.Time // calendar date, midnight UTC, no time component
	StartMinutes int       // minutes since midnight
}

func NewSlotKey(courtID uuid.UUID, date time.Time, startMinutes int) SlotKey {
	return SlotKey{
		CourtID:      courtID,
		Date:         time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		StartMinutes: startMinutes,
	}
}

// EndMinutes is derived from the start, never supplied independently.
func (k SlotKey) EndMinutes() int {
	return k.StartMinutes + SlotDurationMinutes
}

// StartAt returns the absolute start instant of the slot.
func (k SlotKey) StartAt() time.Time {
	return k.Date.Add(time.Duration(k.StartMinutes) * time.Minute)
}

// EndAt returns the absolute end instant of the slot.
func (k SlotKey) EndAt() time.Time {
	return k.Date.Add(time.Duration(k.EndMinutes()) * time.Minute)
}

// FormatMinutes renders minutes since midnight as HH:MM.
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
