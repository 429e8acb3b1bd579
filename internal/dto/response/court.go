package response

import "court-booking/internal/data/entity"

type CourtResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      entity.CourtType `json:"type"`
	BasePrice int64            `json:"base_price"`
	IsActive  bool             `json:"is_active"`
}

type SlotAvailabilityResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

func CourtToResponse(court *entity.Court) CourtResponse {
	return CourtResponse{
		ID:        court.ID.String(),
		Name:      court.Name,
		Type:      court.Type,
		BasePrice: court.BasePrice,
		IsActive:  court.IsActive,
	}
}
