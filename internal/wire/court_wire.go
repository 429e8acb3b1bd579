package wire

import (
	"court-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCourt(r chi.Router, courtHandler *adaptor.CourtHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/courts - List active courts
	r.Get("/api/courts", courtHandler.List)

	// GET /api/courts/{id} - Court details
	r.Get("/api/courts/{id}", courtHandler.Get)

	// GET /api/availability - Slot grid for a court and date
	r.Get("/api/availability", courtHandler.Availability)
}
