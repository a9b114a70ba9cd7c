package usecase

import (
	"hall-booking/internal/data/repository"
	"hall-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	Hall      HallService
	Booking   BookingService
	Dashboard DashboardService
}

func NewService(repo *repository.Repository, config *utils.Config, opts Options, log *zap.Logger) *Service {
	return &Service{
		Auth:      NewAuthService(repo, config, opts, log),
		Hall:      NewHallService(repo, opts, log),
		Booking:   NewBookingService(repo, config, opts, log),
		Dashboard: NewDashboardService(repo, config, opts, log),
	}
}
