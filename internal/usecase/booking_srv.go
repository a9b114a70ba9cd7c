package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"hall-booking/internal/data/entity"
	"hall-booking/internal/data/repository"
	"hall-booking/internal/dto/request"
	"hall-booking/internal/dto/response"
	"hall-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Authenticated users
	FormContext(ctx context.Context, hallID string) (*response.BookingFormResponse, error)
	Create(ctx context.Context, actor entity.Actor, hallID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetConfirmation(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error)
	ListMine(ctx context.Context, actor entity.Actor) (*response.MyBookingsResponse, error)
	Cancel(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error)

	// Staff review
	ListPending(ctx context.Context, actor entity.Actor) ([]response.BookingResponse, error)
	Approve(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error)
	Reject(ctx context.Context, actor entity.Actor, bookingID, reason string) (*response.BookingResponse, error)
	BulkReview(ctx context.Context, actor entity.Actor, req *request.BulkReviewRequest) (*response.BulkReviewResponse, error)

	// IsHallAvailable reports whether the hall has no active booking on date.
	// Bad input and unknown halls answer false.
	IsHallAvailable(ctx context.Context, hallID, date string) bool
}

type bookingService struct {
	repo      *repository.Repository
	rules     BookingRules
	publisher EventPublisher
	cache     AvailabilityCache
	clock     Clock
	loc       *time.Location
	log       *zap.Logger

	// changes counts committed booking changes; availability answers read
	// across a change are not cached.
	changes atomic.Uint64
}

func NewBookingService(repo *repository.Repository, config *utils.Config, opts Options, log *zap.Logger) BookingService {
	opts = opts.withDefaults()
	return &bookingService{
		repo:      repo,
		rules:     NewBookingRules(config.Booking.UniqueSlotScope),
		publisher: opts.Publisher,
		cache:     opts.Cache,
		clock:     opts.Clock,
		loc:       config.App.Location(),
		log:       log.With(zap.String("service", "booking")),
	}
}

// today is the current calendar date in the configured time zone.
func (s *bookingService) today() time.Time {
	return entity.DateOf(s.clock().In(s.loc))
}

func (s *bookingService) FormContext(ctx context.Context, hallID string) (*response.BookingFormResponse, error) {
	hall, err := s.findHall(ctx, hallID)
	if err != nil {
		return nil, err
	}

	return &response.BookingFormResponse{
		Hall:      response.HallToResponse(hall),
		Capacity:  hall.Capacity,
		Faculties: entity.Faculties,
		Today:     s.today().Format(entity.DateLayout),
	}, nil
}

func (s *bookingService) Create(ctx context.Context, actor entity.Actor, hallID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	hallUUID, err := uuid.Parse(hallID)
	if err != nil {
		return nil, fmt.Errorf("hall %s: %w", hallID, ErrNotFound)
	}

	date, err := entity.ParseDate(req.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	start, err := entity.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	end, err := entity.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	faculty := entity.FacultyScience
	if req.Faculty != "" {
		faculty = entity.Faculty(req.Faculty)
	}

	now := s.clock()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		HallID:            hallUUID,
		UserID:            actor.UserID,
		BookingDate:       date,
		StartTime:         start,
		EndTime:           end,
		Purpose:           req.Purpose,
		ExpectedAttendees: req.ExpectedAttendees,
		Faculty:           faculty,
		Status:            entity.BookingStatusPending,
	}

	today := s.today()
	var hallName string
	err = s.repo.Booking.CreateChecked(ctx, booking, func(hall *entity.Hall, sameDay []*entity.Booking) error {
		hallName = hall.Name
		return s.rules.Validate(booking, hall, sameDay, today)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("hall %s: %w", hallID, ErrNotFound)
		case errors.Is(err, repository.ErrSlotTaken):
			return nil, ErrDuplicateSlot
		case errors.Is(err, ErrValidation):
			s.log.Info("Booking rejected by rules",
				zap.String("hall_id", hallID),
				zap.String("user_id", actor.UserID.String()),
				zap.String("reason", err.Error()))
			return nil, err
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("hall_id", hallID),
		zap.String("user_id", actor.UserID.String()),
		zap.String("date", req.BookingDate))

	s.afterChange(ctx, booking, "", actor)

	resp := response.BookingToResponse(booking, hallName)
	return &resp, nil
}

func (s *bookingService) GetConfirmation(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != actor.UserID {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}

	resp := response.BookingToResponse(booking, s.hallName(ctx, booking.HallID))
	return &resp, nil
}

func (s *bookingService) ListMine(ctx context.Context, actor entity.Actor) (*response.MyBookingsResponse, error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	counts, err := s.repo.Booking.CountByUserAndStatus(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	return &response.MyBookingsResponse{
		Bookings:      response.BookingsToResponse(bookings, s.hallNames(ctx, bookings)),
		PendingCount:  counts[entity.BookingStatusPending],
		ApprovedCount: counts[entity.BookingStatusApproved],
	}, nil
}

func (s *bookingService) Cancel(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error) {
	return s.transition(ctx, actor, bookingID, "cancel", func(b *entity.Booking, now time.Time) error {
		return CancelBooking(b, actor, now)
	})
}

func (s *bookingService) ListPending(ctx context.Context, actor entity.Actor) ([]response.BookingResponse, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}

	bookings, err := s.repo.Booking.FindByStatus(ctx, entity.BookingStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending bookings: %w", err)
	}

	return response.BookingsToResponse(bookings, s.hallNames(ctx, bookings)), nil
}

func (s *bookingService) Approve(ctx context.Context, actor entity.Actor, bookingID string) (*response.BookingResponse, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	return s.transition(ctx, actor, bookingID, "approve", func(b *entity.Booking, now time.Time) error {
		return ApproveBooking(b, actor, now)
	})
}

func (s *bookingService) Reject(ctx context.Context, actor entity.Actor, bookingID, reason string) (*response.BookingResponse, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	return s.transition(ctx, actor, bookingID, "reject", func(b *entity.Booking, now time.Time) error {
		return RejectBooking(b, actor, reason, now)
	})
}

func (s *bookingService) BulkReview(ctx context.Context, actor entity.Actor, req *request.BulkReviewRequest) (*response.BulkReviewResponse, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Bulk review validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	updated := 0
	for _, id := range req.BookingIDs {
		var err error
		if req.Action == "approve" {
			_, err = s.Approve(ctx, actor, id)
		} else {
			_, err = s.Reject(ctx, actor, id, req.RejectionReason)
		}

		// only pending bookings are touched, everything else is skipped
		if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		updated++
	}

	s.log.Info("Bulk review applied",
		zap.String("action", req.Action),
		zap.Int("requested", len(req.BookingIDs)),
		zap.Int("updated", updated),
		zap.String("by", actor.UserID.String()))

	return &response.BulkReviewResponse{Updated: updated}, nil
}

func (s *bookingService) IsHallAvailable(ctx context.Context, hallID, date string) bool {
	query := request.AvailabilityQuery{HallID: hallID, Date: date}
	if errs := utils.ValidateStruct(query); len(errs) > 0 {
		return false
	}

	id, err := uuid.Parse(hallID)
	if err != nil {
		return false
	}
	day, err := entity.ParseDate(date)
	if err != nil {
		return false
	}

	if available, found := s.cache.Get(ctx, id, day); found {
		return available
	}

	seen := s.changes.Load()

	hall, err := s.repo.Hall.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Availability check failed", zap.Error(err), zap.String("hall_id", hallID))
		return false
	}
	if hall == nil {
		return false
	}

	busy, err := s.repo.Booking.ExistsActiveOnDate(ctx, id, day)
	if err != nil {
		s.log.Error("Availability check failed", zap.Error(err), zap.String("hall_id", hallID))
		return false
	}

	if s.changes.Load() == seen {
		s.cache.Set(ctx, id, day, !busy)
	}
	return !busy
}

// transition runs apply on the locked booking and persists the result.
func (s *bookingService) transition(
	ctx context.Context,
	actor entity.Actor,
	bookingID string,
	operation string,
	apply func(*entity.Booking, time.Time) error,
) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}

	var from entity.BookingStatus
	booking, err := s.repo.Booking.Transition(ctx, id, func(b *entity.Booking) error {
		from = b.Status
		return apply(b, s.clock())
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
		}
		if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
			s.log.Info("Booking "+operation+" refused",
				zap.String("booking_id", bookingID),
				zap.String("status", string(from)),
				zap.String("actor", actor.UserID.String()),
				zap.Error(err))
			return nil, fmt.Errorf("booking %s: %w", bookingID, err)
		}
		return nil, fmt.Errorf("%s booking %s: %w", operation, bookingID, err)
	}

	s.log.Info("Booking status changed",
		zap.String("booking_id", bookingID),
		zap.String("from", string(from)),
		zap.String("to", string(booking.Status)),
		zap.String("actor", actor.UserID.String()))

	s.afterChange(ctx, booking, from, actor)

	resp := response.BookingToResponse(booking, s.hallName(ctx, booking.HallID))
	return &resp, nil
}

// afterChange drops the cached availability of the booking's hall and date
// and publishes the status change. Neither can fail the request.
func (s *bookingService) afterChange(ctx context.Context, booking *entity.Booking, from entity.BookingStatus, actor entity.Actor) {
	s.changes.Add(1)
	s.cache.Invalidate(ctx, booking.HallID, booking.BookingDate)

	event := entity.NewBookingEvent(booking, from, actor.UserID, s.clock())
	if err := s.publisher.PublishBookingEvent(ctx, event); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("to", string(booking.Status)))
	}
}

func (s *bookingService) findHall(ctx context.Context, hallID string) (*entity.Hall, error) {
	id, err := uuid.Parse(hallID)
	if err != nil {
		return nil, fmt.Errorf("hall %s: %w", hallID, ErrNotFound)
	}

	hall, err := s.repo.Hall.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find hall %s: %w", hallID, err)
	}
	if hall == nil {
		return nil, fmt.Errorf("hall %s: %w", hallID, ErrNotFound)
	}
	return hall, nil
}

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	return booking, nil
}

// hallName is best effort: a lookup failure leaves the name empty.
func (s *bookingService) hallName(ctx context.Context, hallID uuid.UUID) string {
	hall, err := s.repo.Hall.FindByID(ctx, hallID)
	if err != nil || hall == nil {
		return ""
	}
	return hall.Name
}

func (s *bookingService) hallNames(ctx context.Context, bookings []*entity.Booking) map[string]string {
	names := map[string]string{}
	for _, b := range bookings {
		key := b.HallID.String()
		if _, seen := names[key]; !seen {
			names[key] = s.hallName(ctx, b.HallID)
		}
	}
	return names
}
