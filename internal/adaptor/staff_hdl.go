package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"hall-booking/internal/dto/request"
	"hall-booking/internal/usecase"
	"hall-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StaffHandler serves the review queue, hall management and reports.
type StaffHandler struct {
	bookings  usecase.BookingService
	halls     usecase.HallService
	dashboard usecase.DashboardService
	log       *zap.Logger
}

func NewStaffHandler(
	bookings usecase.BookingService,
	halls usecase.HallService,
	dashboard usecase.DashboardService,
	log *zap.Logger,
) *StaffHandler {
	return &StaffHandler{
		bookings:  bookings,
		halls:     halls,
		dashboard: dashboard,
		log:       log.With(zap.String("handler", "staff")),
	}
}

// PendingBookings handles GET /pending-bookings/
func (h *StaffHandler) PendingBookings(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	bookings, err := h.bookings.ListPending(r.Context(), actor)
	if err != nil {
		handleServiceError(h.log, w, err, "list pending bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// Approve handles POST /booking/{id}/approve/
func (h *StaffHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	booking, err := h.bookings.Approve(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "approve booking")
		return
	}

	utils.ResponseSuccess(w, "Booking approved", booking)
}

// Reject handles POST /booking/{id}/reject/. The body is optional.
func (h *StaffHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	var req request.RejectBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.bookings.Reject(r.Context(), actor, chi.URLParam(r, "id"), req.RejectionReason)
	if err != nil {
		handleServiceError(h.log, w, err, "reject booking")
		return
	}

	utils.ResponseSuccess(w, "Booking rejected", booking)
}

// BulkReview handles POST /bookings/bulk-review/
func (h *StaffHandler) BulkReview(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	var req request.BulkReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.bookings.BulkReview(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "bulk review bookings")
		return
	}

	utils.ResponseSuccess(w, "Bookings reviewed", result)
}

// ManageHalls handles GET /manage-halls/?page=&per_page=
func (h *StaffHandler) ManageHalls(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	query := r.URL.Query()
	req := request.NewPaginatedRequest(query.Get("page"), query.Get("per_page"))

	halls, err := h.halls.List(r.Context(), actor, req)
	if err != nil {
		handleServiceError(h.log, w, err, "list halls")
		return
	}

	utils.ResponseSuccess(w, "success", halls)
}

// AddHall handles POST /add-hall/
func (h *StaffHandler) AddHall(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	var req request.HallRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	hall, err := h.halls.Create(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create hall")
		return
	}

	utils.ResponseCreated(w, "Hall created", hall)
}

// EditHall handles PUT /edit-hall/{id}/
func (h *StaffHandler) EditHall(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	var req request.HallUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	hall, err := h.halls.Update(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update hall")
		return
	}

	utils.ResponseSuccess(w, "Hall updated", hall)
}

// DeleteHall handles DELETE /delete-hall/{id}/
func (h *StaffHandler) DeleteHall(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	if err := h.halls.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "delete hall")
		return
	}

	utils.ResponseSuccess(w, "Hall deleted", nil)
}

// Dashboard handles GET /admin-dashboard/
func (h *StaffHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	dashboard, err := h.dashboard.Dashboard(r.Context(), actor)
	if err != nil {
		handleServiceError(h.log, w, err, "load dashboard")
		return
	}

	utils.ResponseSuccess(w, "success", dashboard)
}

// Reports handles GET /admin-reports/
func (h *StaffHandler) Reports(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	reports, err := h.dashboard.Reports(r.Context(), actor)
	if err != nil {
		handleServiceError(h.log, w, err, "load reports")
		return
	}

	utils.ResponseSuccess(w, "success", reports)
}
