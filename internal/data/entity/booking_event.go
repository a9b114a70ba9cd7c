package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingEvent describes one status change of a booking, including its creation
// (From is empty then).
type BookingEvent struct {
	BookingID  uuid.UUID     `json:"booking_id"`
	HallID     uuid.UUID     `json:"hall_id"`
	UserID     uuid.UUID     `json:"user_id"`
	ActorID    uuid.UUID     `json:"actor_id"`
	From       BookingStatus `json:"from_status,omitempty"`
	To         BookingStatus `json:"to_status"`
	Date       string        `json:"booking_date"`
	StartTime  string        `json:"start_time"`
	EndTime    string        `json:"end_time"`
	Reason     *string       `json:"rejection_reason,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewBookingEvent snapshots booking after a change made by actor.
func NewBookingEvent(booking *Booking, from BookingStatus, actor uuid.UUID, at time.Time) BookingEvent {
	return BookingEvent{
		BookingID:  booking.ID,
		HallID:     booking.HallID,
		UserID:     booking.UserID,
		ActorID:    actor,
		From:       from,
		To:         booking.Status,
		Date:       booking.BookingDate.Format(DateLayout),
		StartTime:  booking.StartTime.String(),
		EndTime:    booking.EndTime.String(),
		Reason:     booking.RejectionReason,
		OccurredAt: at.UTC(),
	}
}
