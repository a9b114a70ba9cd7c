package wire

import (
	"hall-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireHall(r chi.Router, hallHandler *adaptor.HallHandler) {
	r.Get("/", hallHandler.Index)
	r.Get("/hall/{id}/", hallHandler.Detail)
	r.Get("/api/check-availability/", hallHandler.CheckAvailability)
}

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, auth, limit middlewareFunc) {
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/hall/{id}/book/", bookingHandler.Form)
		r.With(limit).Post("/hall/{id}/book/", bookingHandler.Create)

		r.Get("/booking/{id}/confirmation/", bookingHandler.Confirmation)
		r.Post("/booking/{id}/cancel/", bookingHandler.Cancel)
		r.Get("/my-bookings/", bookingHandler.MyBookings)
	})
}
