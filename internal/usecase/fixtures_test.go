package usecase

import (
	"context"
	"sync"
	"time"

	"hall-booking/internal/data/entity"
	"hall-booking/internal/data/repository/repotest"
	"hall-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func testConfig(scope string) *utils.Config {
	return &utils.Config{
		App:     utils.AppConfig{Name: "hall-booking-test", Timezone: "UTC"},
		Booking: utils.BookingConfig{UniqueSlotScope: scope},
		Session: utils.SessionConfig{ExpiryHours: 24, BcryptCost: 4},
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.BookingEvent
	err    error
}

func (p *recordingPublisher) PublishBookingEvent(_ context.Context, event entity.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Events() []entity.BookingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.BookingEvent(nil), p.events...)
}

type memoryCache struct {
	mu          sync.Mutex
	values      map[string]bool
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]bool{}}
}

func cacheKey(hallID uuid.UUID, date time.Time) string {
	return hallID.String() + ":" + date.Format(entity.DateLayout)
}

func (c *memoryCache) Get(_ context.Context, hallID uuid.UUID, date time.Time) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[cacheKey(hallID, date)]
	return v, ok
}

func (c *memoryCache) Set(_ context.Context, hallID uuid.UUID, date time.Time, available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[cacheKey(hallID, date)] = available
}

func (c *memoryCache) Invalidate(_ context.Context, hallID uuid.UUID, date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey(hallID, date)
	delete(c.values, key)
	c.invalidated = append(c.invalidated, key)
}

// env is a service stack over an in-memory store with a fixed clock.
type env struct {
	store     *repotest.Store
	service   *Service
	publisher *recordingPublisher
	cache     *memoryCache
	hall      *entity.Hall
	user      entity.Actor
	other     entity.Actor
	staff     entity.Actor
}

func newEnv(scope string) *env {
	store := repotest.New()
	store.Now = func() time.Time { return testNow }
	publisher := &recordingPublisher{}
	cache := newMemoryCache()

	opts := Options{
		Publisher: publisher,
		Cache:     cache,
		Clock:     func() time.Time { return testNow },
	}

	hall := store.AddHall(&entity.Hall{
		Name:      "Seminar Room C",
		Capacity:  100,
		Location:  "Library Building, 2nd Floor",
		Amenities: "Whiteboard, Projector, WiFi",
		Available: true,
	})

	return &env{
		store:     store,
		service:   NewService(store.Repository(), testConfig(scope), opts, zap.NewNop()),
		publisher: publisher,
		cache:     cache,
		hall:      hall,
		user:      entity.Actor{UserID: uuid.New(), Role: entity.RoleUser},
		other:     entity.Actor{UserID: uuid.New(), Role: entity.RoleUser},
		staff:     entity.Actor{UserID: uuid.New(), Role: entity.RoleStaff},
	}
}
