package usecase

import (
	"context"
	"errors"
	"fmt"

	"hall-booking/internal/data/entity"
	"hall-booking/internal/data/repository"
	"hall-booking/internal/dto/request"
	"hall-booking/internal/dto/response"
	"hall-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type HallService interface {
	// Public
	ListAvailable(ctx context.Context) (*response.HallListResponse, error)
	GetDetail(ctx context.Context, hallID string) (*response.HallDetailResponse, error)

	// Staff inventory management
	List(ctx context.Context, actor entity.Actor, req request.PaginatedRequest) (*response.PaginatedResponse[response.HallResponse], error)
	Create(ctx context.Context, actor entity.Actor, req *request.HallRequest) (*response.HallResponse, error)
	Update(ctx context.Context, actor entity.Actor, hallID string, req *request.HallUpdateRequest) (*response.HallResponse, error)
	Delete(ctx context.Context, actor entity.Actor, hallID string) error

	// EnsureHall creates hall unless one with the same name exists.
	EnsureHall(ctx context.Context, hall *entity.Hall) (bool, error)
}

type hallService struct {
	repo  *repository.Repository
	clock Clock
	log   *zap.Logger
}

func NewHallService(repo *repository.Repository, opts Options, log *zap.Logger) HallService {
	opts = opts.withDefaults()
	return &hallService{
		repo:  repo,
		clock: opts.Clock,
		log:   log.With(zap.String("service", "hall")),
	}
}

func (s *hallService) ListAvailable(ctx context.Context) (*response.HallListResponse, error) {
	halls, err := s.repo.Hall.FindAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available halls: %w", err)
	}

	return &response.HallListResponse{
		Halls:      response.HallsToResponse(halls),
		TotalHalls: len(halls),
	}, nil
}

func (s *hallService) GetDetail(ctx context.Context, hallID string) (*response.HallDetailResponse, error) {
	hall, err := s.findHall(ctx, hallID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.Booking.FindActiveByHallID(ctx, hall.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for hall %s: %w", hallID, err)
	}

	return &response.HallDetailResponse{
		Hall:     response.HallToResponse(hall),
		Bookings: response.BookingsToResponse(bookings, map[string]string{hall.ID.String(): hall.Name}),
	}, nil
}

func (s *hallService) List(ctx context.Context, actor entity.Actor, req request.PaginatedRequest) (*response.PaginatedResponse[response.HallResponse], error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}

	halls, err := s.repo.Hall.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list halls: %w", err)
	}

	total, err := s.repo.Hall.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count halls: %w", err)
	}

	return response.NewPaginatedResponse(response.HallsToResponse(halls), req.Page, req.Limit(), total), nil
}

func (s *hallService) Create(ctx context.Context, actor entity.Actor, req *request.HallRequest) (*response.HallResponse, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create hall validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}
	if !entity.IsCapacityTier(req.Capacity) {
		return nil, ErrInvalidCapacity
	}

	now := s.clock()
	hall := &entity.Hall{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Capacity:    req.Capacity,
		Location:    req.Location,
		Description: req.Description,
		Amenities:   req.Amenities,
		Image:       req.Image,
		Available:   true,
	}
	if hall.Image == "" {
		hall.Image = entity.DefaultHallImage
	}
	if req.Available != nil {
		hall.Available = *req.Available
	}

	if err := s.repo.Hall.Create(ctx, hall); err != nil {
		return nil, fmt.Errorf("create hall: %w", err)
	}

	s.log.Info("Hall created",
		zap.String("hall_id", hall.ID.String()),
		zap.String("name", hall.Name),
		zap.String("by", actor.UserID.String()))

	resp := response.HallToResponse(hall)
	return &resp, nil
}

func (s *hallService) Update(ctx context.Context, actor entity.Actor, hallID string, req *request.HallUpdateRequest) (*response.HallResponse, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update hall validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}
	if req.Capacity != nil && !entity.IsCapacityTier(*req.Capacity) {
		return nil, ErrInvalidCapacity
	}

	hall, err := s.findHall(ctx, hallID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		hall.Name = *req.Name
	}
	if req.Capacity != nil {
		hall.Capacity = *req.Capacity
	}
	if req.Location != nil {
		hall.Location = *req.Location
	}
	if req.Description != nil {
		hall.Description = *req.Description
	}
	if req.Amenities != nil {
		hall.Amenities = *req.Amenities
	}
	if req.Image != nil {
		hall.Image = *req.Image
	}
	if req.Available != nil {
		hall.Available = *req.Available
	}
	hall.UpdatedAt = s.clock()

	if err := s.repo.Hall.Update(ctx, hall); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("hall %s: %w", hallID, ErrNotFound)
		}
		return nil, fmt.Errorf("update hall: %w", err)
	}

	s.log.Info("Hall updated", zap.String("hall_id", hallID), zap.String("by", actor.UserID.String()))

	resp := response.HallToResponse(hall)
	return &resp, nil
}

func (s *hallService) Delete(ctx context.Context, actor entity.Actor, hallID string) error {
	if !actor.IsStaff() {
		return ErrForbidden
	}

	id, err := uuid.Parse(hallID)
	if err != nil {
		return fmt.Errorf("hall %s: %w", hallID, ErrNotFound)
	}

	if err := s.repo.Hall.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("hall %s: %w", hallID, ErrNotFound)
		}
		return fmt.Errorf("delete hall: %w", err)
	}

	s.log.Info("Hall deleted", zap.String("hall_id", hallID), zap.String("by", actor.UserID.String()))
	return nil
}

func (s *hallService) EnsureHall(ctx context.Context, hall *entity.Hall) (bool, error) {
	existing, err := s.repo.Hall.FindByName(ctx, hall.Name)
	if err != nil {
		return false, fmt.Errorf("find hall %s: %w", hall.Name, err)
	}
	if existing != nil {
		return false, nil
	}

	now := s.clock()
	hall.ID = uuid.New()
	hall.CreatedAt = now
	hall.UpdatedAt = now
	if hall.Image == "" {
		hall.Image = entity.DefaultHallImage
	}

	if err := s.repo.Hall.Create(ctx, hall); err != nil {
		return false, fmt.Errorf("create hall %s: %w", hall.Name, err)
	}
	return true, nil
}

// findHall parses hallID and loads the hall. A malformed id is reported as not found.
func (s *hallService) findHall(ctx context.Context, hallID string) (*entity.Hall, error) {
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
