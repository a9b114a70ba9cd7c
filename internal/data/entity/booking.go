package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ActiveBookingStatuses count toward conflicts and availability.
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusApproved}

// IsActive reports whether the status still holds its slot.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusApproved
}

// IsTerminal reports whether no further transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCancelled
}

type Faculty string

const (
	FacultyArts     Faculty = "Arts"
	FacultyCommerce Faculty = "Commerce"
	FacultyScience  Faculty = "Science"
)

var Faculties = []Faculty{FacultyArts, FacultyCommerce, FacultyScience}

type Booking struct {
	BaseNoDelete
	HallID            uuid.UUID     `db:"hall_id"`
	UserID            uuid.UUID     `db:"user_id"`
	BookingDate       time.Time     `db:"booking_date"`
	StartTime         TimeOfDay     `db:"start_time"`
	EndTime           TimeOfDay     `db:"end_time"`
	Purpose           string        `db:"purpose"`
	ExpectedAttendees int           `db:"expected_attendees"`
	Faculty           Faculty       `db:"faculty"`
	Status            BookingStatus `db:"status"`
	ApprovedBy        *uuid.UUID    `db:"approved_by"`
	RejectionReason   *string       `db:"rejection_reason"`
}

// Overlaps reports whether the half-open ranges [start,end) of both bookings intersect.
func (b *Booking) Overlaps(start, end TimeOfDay) bool {
	return !(end <= b.StartTime || start >= b.EndTime)
}

// TimeOfDay is a wall-clock time with minute precision, stored as minutes since midnight.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay accepts "15:04" or "15:04:05" (seconds are dropped).
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return TimeOfDay(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", value)
}

func (t TimeOfDay) String() string {
	m := int(t) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

const DateLayout = "2006-01-02"

// DateOf strips the clock from t, keeping its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}
