package usecase

import (
	"fmt"
	"time"

	"hall-booking/internal/data/entity"
)

const (
	UniqueSlotScopeActive = "active"
	UniqueSlotScopeAll    = "all"
)

// BookingRules validates a candidate booking against a snapshot of its hall
// and the bookings already held for that hall on the same date.
type BookingRules struct {
	// UniqueSlotAllStatuses makes (hall, date, start) unique across every
	// status, so a cancelled or rejected booking keeps its start time.
	UniqueSlotAllStatuses bool
}

func NewBookingRules(scope string) BookingRules {
	return BookingRules{UniqueSlotAllStatuses: scope == UniqueSlotScopeAll}
}

// Validate returns nil when candidate may be stored, or the first rule it breaks.
// Checks run in a fixed order: date, capacity, time range, overlap, same start.
func (r BookingRules) Validate(candidate *entity.Booking, hall *entity.Hall, existing []*entity.Booking, today time.Time) error {
	if candidate.BookingDate.Before(entity.DateOf(today)) {
		return ErrPastDate
	}

	if candidate.ExpectedAttendees > hall.Capacity {
		return fmt.Errorf("%w of %d", ErrCapacityExceeded, hall.Capacity)
	}

	if candidate.StartTime >= candidate.EndTime {
		return ErrInvalidTimeRange
	}

	for _, other := range existing {
		if !r.sameSlotDay(candidate, other) || !other.Status.IsActive() {
			continue
		}
		if other.Overlaps(candidate.StartTime, candidate.EndTime) {
			return ErrTimeConflict
		}
	}

	for _, other := range existing {
		if !r.sameSlotDay(candidate, other) {
			continue
		}
		if !r.UniqueSlotAllStatuses && !other.Status.IsActive() {
			continue
		}
		if other.StartTime == candidate.StartTime {
			return ErrDuplicateSlot
		}
	}

	return nil
}

func (r BookingRules) sameSlotDay(candidate, other *entity.Booking) bool {
	return other.ID != candidate.ID &&
		other.HallID == candidate.HallID &&
		other.BookingDate.Equal(candidate.BookingDate)
}
