package response

import (
	"time"

	"court-booking/internal/data/entity"
)

type ModifierLineResponse struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type PriceBreakdownResponse struct {
	Base      int64                  `json:"base"`
	Modifiers []ModifierLineResponse `json:"modifiers"`
	Total     int64                  `json:"total"`
}

type ReservationResponse struct {
	ID          string                   `json:"id"`
	Reference   string                   `json:"reference"`
	RequesterID string                   `json:"requester_id"`
	CourtID     string                   `json:"court_id"`
	CourtName   string                   `json:"court_name,omitempty"`
	Date        string                   `json:"date"`
	StartTime   string                   `json:"start_time"`
	EndTime     string                   `json:"end_time"`
	AddonIDs    []string                 `json:"addon_ids,omitempty"`
	CoachID     *string                  `json:"coach_id,omitempty"`
	Price       PriceBreakdownResponse   `json:"price"`
	Status      entity.ReservationStatus `json:"status"`
	Version     int64                    `json:"version"`
	CreatedAt   time.Time                `json:"created_at"`
}

func ReservationToResponse(res *entity.Reservation, courtName string) ReservationResponse {
	modifiers := make([]ModifierLineResponse, len(res.Price.Modifiers))
	for i, m := range res.Price.Modifiers {
		modifiers[i] = ModifierLineResponse{Name: m.Name, Amount: m.Amount}
	}

	addonIDs := make([]string, len(res.AddonIDs))
	for i, id := range res.AddonIDs {
		addonIDs[i] = id.String()
	}

	var coachID *string
	if res.CoachID != nil {
		s := res.CoachID.String()
		coachID = &s
	}

	return ReservationResponse{
		ID:          res.ID.String(),
		Reference:   res.Reference,
		RequesterID: res.RequesterID.String(),
		CourtID:     res.Slot.CourtID.String(),
		CourtName:   courtName,
		Date:        res.Slot.Date.Format("2006-01-02"),
		StartTime:   entity.FormatMinutes(res.Slot.StartMinutes),
		EndTime:     entity.FormatMinutes(res.EndMinutes),
		AddonIDs:    addonIDs,
		CoachID:     coachID,
		Price: PriceBreakdownResponse{
			Base:      res.Price.Base,
			Modifiers: modifiers,
			Total:     res.Price.Total,
		},
		Status:    res.Status,
		Version:   res.Version,
		CreatedAt: res.CreatedAt,
	}
}
