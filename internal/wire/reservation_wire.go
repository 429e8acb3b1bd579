package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(r chi.Router, reservationHandler *adaptor.ReservationHandler, log *zap.Logger) {
	// ==================== IDENTITY ROUTES ====================
	// Identity is asserted by the upstream gateway and trusted here.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(log))

		// POST /api/reservations - Reserve a slot
		r.Post("/api/reservations", reservationHandler.Create)

		// GET /api/user/reservations - Requester's own reservations
		r.Get("/api/user/reservations", reservationHandler.ListForRequester)

		// PATCH /api/reservations/{id}/status - Lifecycle transition
		r.Patch("/api/reservations/{id}/status", reservationHandler.Transition)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/reservations", func(r chi.Router) {
		r.Use(middleware.Identity(log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/reservations - All reservations
		r.Get("/", reservationHandler.ListAll)

		// GET /api/admin/reservations/{id} - Any reservation's details
		r.Get("/{id}", reservationHandler.GetByID)
	})
}
