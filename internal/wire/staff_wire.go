package wire

import (
	"hall-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireStaff(r chi.Router, staffHandler *adaptor.StaffHandler, auth, staff middlewareFunc) {
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(staff)

		// review queue
		r.Get("/pending-bookings/", staffHandler.PendingBookings)
		r.Post("/booking/{id}/approve/", staffHandler.Approve)
		r.Post("/booking/{id}/reject/", staffHandler.Reject)
		r.Post("/bookings/bulk-review/", staffHandler.BulkReview)

		// hall inventory
		r.Get("/manage-halls/", staffHandler.ManageHalls)
		r.Post("/add-hall/", staffHandler.AddHall)
		r.Put("/edit-hall/{id}/", staffHandler.EditHall)
		r.Delete("/delete-hall/{id}/", staffHandler.DeleteHall)

		r.Get("/admin-dashboard/", staffHandler.Dashboard)
		r.Get("/admin-reports/", staffHandler.Reports)
	})
}
