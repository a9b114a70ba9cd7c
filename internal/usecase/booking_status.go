package usecase

import (
	"time"

	"hall-booking/internal/data/entity"
)

// Status transitions. Each function either mutates the booking completely
// or returns an error and leaves it untouched.

// ApproveBooking moves a pending booking to approved and records the reviewer.
func ApproveBooking(booking *entity.Booking, actor entity.Actor, now time.Time) error {
	if !actor.IsStaff() {
		return ErrForbidden
	}
	if booking.Status != entity.BookingStatusPending {
		return ErrInvalidTransition
	}

	reviewer := actor.UserID
	booking.Status = entity.BookingStatusApproved
	booking.ApprovedBy = &reviewer
	booking.RejectionReason = nil
	booking.UpdatedAt = now
	return nil
}

// RejectBooking moves a pending booking to rejected. An empty reason is stored as is.
func RejectBooking(booking *entity.Booking, actor entity.Actor, reason string, now time.Time) error {
	if !actor.IsStaff() {
		return ErrForbidden
	}
	if booking.Status != entity.BookingStatusPending {
		return ErrInvalidTransition
	}

	reviewer := actor.UserID
	booking.Status = entity.BookingStatusRejected
	booking.ApprovedBy = &reviewer
	booking.RejectionReason = &reason
	booking.UpdatedAt = now
	return nil
}

// CancelBooking lets the owner withdraw a pending or approved booking.
// Other users get ErrNotFound so the booking's existence is not revealed.
func CancelBooking(booking *entity.Booking, actor entity.Actor, now time.Time) error {
	if booking.UserID != actor.UserID {
		return ErrNotFound
	}
	if !booking.Status.IsActive() {
		return ErrInvalidTransition
	}

	booking.Status = entity.BookingStatusCancelled
	booking.UpdatedAt = now
	return nil
}
