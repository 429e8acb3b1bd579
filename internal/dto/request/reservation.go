package request

type CreateReservationRequest struct {
	CourtID   string   `json:"court_id" validate:"required,uuid4"`
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string   `json:"start_time" validate:"required,datetime=15:04"`
	AddonIDs  []string `json:"addon_ids" validate:"omitempty,dive,uuid4"`
	CoachID   *string  `json:"coach_id,omitempty" validate:"omitempty,uuid4"`
}

type TransitionRequest struct {
	Status          string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	ExpectedVersion int64  `json:"expected_version" validate:"required,min=1"`
}
