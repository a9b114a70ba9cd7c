package seed

import (
	"context"
	"testing"

	"hall-booking/internal/data/entity"
	"hall-booking/internal/data/repository/repotest"
	"hall-booking/internal/dto/request"
	"hall-booking/internal/usecase"
	"hall-booking/pkg/utils"

	"go.uber.org/zap"
)

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := repotest.New()
	config := &utils.Config{Session: utils.SessionConfig{ExpiryHours: 24, BcryptCost: 4}}
	service := usecase.NewService(store.Repository(), config, usecase.Options{}, zap.NewNop())

	for i := 0; i < 2; i++ {
		if err := Run(ctx, service, zap.NewNop()); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	halls, err := service.Hall.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("list halls: %v", err)
	}
	if halls.TotalHalls != len(DefaultHalls) {
		t.Fatalf("expected %d halls, got %d", len(DefaultHalls), halls.TotalHalls)
	}
	for _, h := range halls.Halls {
		if !entity.IsCapacityTier(h.Capacity) {
			t.Errorf("hall %s has capacity %d outside the tiers", h.Name, h.Capacity)
		}
	}

	for _, a := range DefaultAccounts {
		resp, err := service.Auth.Login(ctx, &request.LoginRequest{Username: a.Username, Password: a.Password}, usecase.ClientInfo{})
		if err != nil {
			t.Fatalf("login %s: %v", a.Username, err)
		}
		if resp.Role != a.Role {
			t.Errorf("%s: expected role %s, got %s", a.Username, a.Role, resp.Role)
		}
	}
}
