package response

import (
	"time"

	"hall-booking/internal/data/entity"
)

type BookingResponse struct {
	ID                string               `json:"id"`
	HallID            string               `json:"hall_id"`
	HallName          string               `json:"hall_name,omitempty"`
	UserID            string               `json:"user_id"`
	BookingDate       string               `json:"booking_date"`
	StartTime         string               `json:"start_time"`
	EndTime           string               `json:"end_time"`
	Purpose           string               `json:"purpose"`
	ExpectedAttendees int                  `json:"expected_attendees"`
	Faculty           entity.Faculty       `json:"faculty"`
	Status            entity.BookingStatus `json:"status"`
	ApprovedBy        *string              `json:"approved_by,omitempty"`
	RejectionReason   *string              `json:"rejection_reason,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// BookingFormResponse is what a client needs to render the booking form for a hall.
type BookingFormResponse struct {
	Hall      HallResponse     `json:"hall"`
	Capacity  int              `json:"capacity"`
	Faculties []entity.Faculty `json:"faculties"`
	Today     string           `json:"today"`
}

type MyBookingsResponse struct {
	Bookings      []BookingResponse `json:"bookings"`
	PendingCount  int64             `json:"pending_count"`
	ApprovedCount int64             `json:"approved_count"`
}

type BulkReviewResponse struct {
	Updated int `json:"updated"`
}

// AvailabilityResponse is written without the response envelope.
type AvailabilityResponse struct {
	Available bool `json:"available"`
}

func BookingToResponse(booking *entity.Booking, hallName string) BookingResponse {
	resp := BookingResponse{
		ID:                booking.ID.String(),
		HallID:            booking.HallID.String(),
		HallName:          hallName,
		UserID:            booking.UserID.String(),
		BookingDate:       booking.BookingDate.Format(entity.DateLayout),
		StartTime:         booking.StartTime.String(),
		EndTime:           booking.EndTime.String(),
		Purpose:           booking.Purpose,
		ExpectedAttendees: booking.ExpectedAttendees,
		Faculty:           booking.Faculty,
		Status:            booking.Status,
		RejectionReason:   booking.RejectionReason,
		CreatedAt:         booking.CreatedAt,
		UpdatedAt:         booking.UpdatedAt,
	}

	if booking.ApprovedBy != nil {
		approver := booking.ApprovedBy.String()
		resp.ApprovedBy = &approver
	}

	return resp
}

// BookingsToResponse converts bookings, resolving hall names from names when present.
func BookingsToResponse(bookings []*entity.Booking, names map[string]string) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		out = append(out, BookingToResponse(booking, names[booking.HallID.String()]))
	}
	return out
}
