package adaptor

import (
	"net/http"

	"hall-booking/internal/dto/response"
	"hall-booking/internal/usecase"
	"hall-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HallHandler serves the public hall pages.
type HallHandler struct {
	halls    usecase.HallService
	bookings usecase.BookingService
	log      *zap.Logger
}

func NewHallHandler(halls usecase.HallService, bookings usecase.BookingService, log *zap.Logger) *HallHandler {
	return &HallHandler{
		halls:    halls,
		bookings: bookings,
		log:      log.With(zap.String("handler", "hall")),
	}
}

// Index handles GET /
func (h *HallHandler) Index(w http.ResponseWriter, r *http.Request) {
	halls, err := h.halls.ListAvailable(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "list halls")
		return
	}

	utils.ResponseSuccess(w, "success", halls)
}

// Detail handles GET /hall/{id}/
func (h *HallHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.halls.GetDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get hall detail")
		return
	}

	utils.ResponseSuccess(w, "success", detail)
}

// CheckAvailability handles GET /api/check-availability/?hall_id=&date=
// The body is always {"available": bool}.
func (h *HallHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	available := h.bookings.IsHallAvailable(r.Context(), query.Get("hall_id"), query.Get("date"))

	utils.WriteJSON(w, http.StatusOK, response.AvailabilityResponse{Available: available})
}
