package usecase

import (
	"context"
	"fmt"
	"time"

	"hall-booking/internal/data/entity"
	"hall-booking/internal/data/repository"
	"hall-booking/internal/dto/response"
	"hall-booking/pkg/utils"

	"go.uber.org/zap"
)

// DashboardService serves the staff overview pages.
type DashboardService interface {
	Dashboard(ctx context.Context, actor entity.Actor) (*response.DashboardResponse, error)
	Reports(ctx context.Context, actor entity.Actor) (*response.ReportResponse, error)
}

type dashboardService struct {
	repo  *repository.Repository
	clock Clock
	loc   *time.Location
	log   *zap.Logger
}

func NewDashboardService(repo *repository.Repository, config *utils.Config, opts Options, log *zap.Logger) DashboardService {
	opts = opts.withDefaults()
	return &dashboardService{
		repo:  repo,
		clock: opts.Clock,
		loc:   config.App.Location(),
		log:   log.With(zap.String("service", "dashboard")),
	}
}

func (s *dashboardService) Dashboard(ctx context.Context, actor entity.Actor) (*response.DashboardResponse, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}

	totalHalls, err := s.repo.Hall.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count halls: %w", err)
	}
	availableHalls, err := s.repo.Hall.CountAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("count available halls: %w", err)
	}

	counts, err := s.repo.Booking.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	today := entity.DateOf(s.clock().In(s.loc))
	todays, err := s.repo.Booking.FindActiveOnDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("list today's bookings: %w", err)
	}

	names := map[string]string{}
	halls, err := s.repo.Hall.FindAll(ctx, int(totalHalls)+1, 0)
	if err != nil {
		return nil, fmt.Errorf("list halls: %w", err)
	}
	for _, hall := range halls {
		names[hall.ID.String()] = hall.Name
	}

	statusCounts := map[entity.BookingStatus]int64{
		entity.BookingStatusPending:   0,
		entity.BookingStatusApproved:  0,
		entity.BookingStatusRejected:  0,
		entity.BookingStatusCancelled: 0,
	}
	var total int64
	for status, n := range counts {
		statusCounts[status] = n
		total += n
	}

	return &response.DashboardResponse{
		TotalHalls:     totalHalls,
		AvailableHalls: availableHalls,
		TotalBookings:  total,
		StatusCounts:   statusCounts,
		TodayBookings:  response.BookingsToResponse(todays, names),
	}, nil
}

func (s *dashboardService) Reports(ctx context.Context, actor entity.Actor) (*response.ReportResponse, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}

	rows, err := s.repo.Booking.CountByHallAndStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bookings by hall: %w", err)
	}

	// rows arrive ordered by hall name
	reports := []response.HallReport{}
	index := map[string]int{}
	for _, row := range rows {
		key := row.HallID.String()
		i, ok := index[key]
		if !ok {
			i = len(reports)
			index[key] = i
			reports = append(reports, response.HallReport{HallID: key, HallName: row.HallName})
		}
		reports[i].Add(row.Status, row.Count)
	}

	return &response.ReportResponse{Halls: reports}, nil
}
