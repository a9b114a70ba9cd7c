// Package seed creates the default halls and accounts of a fresh installation.
package seed

import (
	"context"
	"fmt"

	"hall-booking/internal/data/entity"
	"hall-booking/internal/usecase"

	"go.uber.org/zap"
)

var DefaultHalls = []entity.Hall{
	{
		Name:        "Auditorium A",
		Capacity:    500,
		Location:    "Main Building, 1st Floor",
		Description: "Large auditorium with state-of-the-art audio-visual equipment, perfect for conferences and major events.",
		Amenities:   "Projector, Sound System, Stage, WiFi, AC, Parking",
		Available:   true,
	},
	{
		Name:        "Conference Hall B",
		Capacity:    300,
		Location:    "Academic Block, 3rd Floor",
		Description: "Modern conference hall with flexible seating arrangement, ideal for seminars and corporate events.",
		Amenities:   "Video Conferencing, Board Room Setup, WiFi, AC, Refreshment Counter",
		Available:   true,
	},
	{
		Name:        "Seminar Room C",
		Capacity:    100,
		Location:    "Library Building, 2nd Floor",
		Description: "Intimate seminar room perfect for workshops, training sessions, and small meetings.",
		Amenities:   "Whiteboard, Projector, WiFi, AC, Discussion Tables",
		Available:   true,
	},
	{
		Name:        "Banquet Hall D",
		Capacity:    200,
		Location:    "Student Center",
		Description: "Elegant banquet hall with full catering facilities, perfect for celebrations and formal dinners.",
		Amenities:   "Catering Kitchen, Elegant Decor, Sound System, Dance Floor, AC, Ample Parking",
		Available:   true,
	},
}

type Account struct {
	Username string
	Email    string
	Password string
	Role     entity.UserRole
}

var DefaultAccounts = []Account{
	{Username: "student1", Email: "student1@college.edu", Password: "studentpass", Role: entity.RoleUser},
	{Username: "admin", Email: "admin@college.edu", Password: "admin", Role: entity.RoleStaff},
}

// Run creates every default hall and account that does not exist yet.
// Running it twice changes nothing.
func Run(ctx context.Context, service *usecase.Service, log *zap.Logger) error {
	log = log.With(zap.String("component", "seed"))

	for _, h := range DefaultHalls {
		hall := h
		created, err := service.Hall.EnsureHall(ctx, &hall)
		if err != nil {
			return fmt.Errorf("seed hall %s: %w", h.Name, err)
		}
		if created {
			log.Info("Created hall", zap.String("name", hall.Name), zap.Int("capacity", hall.Capacity))
		}
	}

	for _, a := range DefaultAccounts {
		created, err := service.Auth.EnsureUser(ctx, a.Username, a.Email, a.Password, a.Role)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", a.Username, err)
		}
		if created {
			log.Info("Created user", zap.String("username", a.Username), zap.String("role", string(a.Role)))
		}
	}

	return nil
}
