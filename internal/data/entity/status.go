package entity

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// transitions is the closed table of legal status changes. Cancelled and
// completed are terminal.
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// ParseStatus rejects unknown status values at the boundary.
func ParseStatus(s string) (ReservationStatus, bool) {
	switch ReservationStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return ReservationStatus(s), true
	}
	return "", false
}

func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// IsLive reports whether a reservation in this status still occupies its
// slot key. Only cancelled reservations free their slot.
func (s ReservationStatus) IsLive() bool {
	return s != StatusCancelled
}

// CanTransitionTo checks the transition table.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}
