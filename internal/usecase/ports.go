package usecase

import (
	"context"
	"time"

	"hall-booking/internal/data/entity"

	"github.com/google/uuid"
)

// EventPublisher delivers booking status changes. Implementations should not
// block the request for long; failures are logged by the caller and ignored.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event entity.BookingEvent) error
}

// AvailabilityCache stores date-level availability answers for a hall.
type AvailabilityCache interface {
	Get(ctx context.Context, hallID uuid.UUID, date time.Time) (available bool, found bool)
	Set(ctx context.Context, hallID uuid.UUID, date time.Time, available bool)
	Invalidate(ctx context.Context, hallID uuid.UUID, date time.Time)
}

// Clock returns the current instant. Tests swap it for a fixed time.
type Clock func() time.Time

type noopPublisher struct{}

func (noopPublisher) PublishBookingEvent(context.Context, entity.BookingEvent) error { return nil }

type noopCache struct{}

func (noopCache) Get(context.Context, uuid.UUID, time.Time) (bool, bool) { return false, false }
func (noopCache) Set(context.Context, uuid.UUID, time.Time, bool) {}
func (noopCache) Invalidate(context.Context, uuid.UUID, time.Time) {}

// Options carries the optional collaborators of the services.
type Options struct {
	Publisher EventPublisher
	Cache     AvailabilityCache
	Clock     Clock
}

func (o Options) withDefaults() Options {
	if o.Publisher == nil {
		o.Publisher = noopPublisher{}
	}
	if o.Cache == nil {
		o.Cache = noopCache{}
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}
