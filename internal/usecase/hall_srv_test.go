package usecase

import (
	"context"
	"errors"
	"testing"

	"hall-booking/internal/data/entity"
	"hall-booking/internal/dto/request"

	"github.com/google/uuid"
)

func TestHallService_Create(t *testing.T) {
	ctx := context.Background()
	e := newEnv(UniqueSlotScopeActive)

	req := &request.HallRequest{
		Name:      "Auditorium A",
		Capacity:  500,
		Location:  "Main Building, 1st Floor",
		Amenities: "Projector, Sound System,, Stage ",
	}

	if _, err := e.service.Hall.Create(ctx, e.user, req); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for non staff, got %v", err)
	}

	hall, err := e.service.Hall.Create(ctx, e.staff, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !hall.Available {
		t.Error("expected new hall to be available by default")
	}
	if hall.Image != entity.DefaultHallImage {
		t.Errorf("expected default image, got %q", hall.Image)
	}
	if want := []string{"Projector", "Sound System", "Stage"}; len(hall.AmenitiesList) != len(want) {
		t.Errorf("expected amenities %v, got %v", want, hall.AmenitiesList)
	}

	req.Capacity = 250
	if _, err := e.service.Hall.Create(ctx, e.staff, req); !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("expected invalid capacity, got %v", err)
	}

	req.Capacity = 100
	req.Name = ""
	if _, err := e.service.Hall.Create(ctx, e.staff, req); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHallService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(UniqueSlotScopeActive)
	hallID := e.hall.ID.String()

	unavailable := false
	capacity := 300
	updated, err := e.service.Hall.Update(ctx, e.staff, hallID, &request.HallUpdateRequest{
		Capacity:  &capacity,
		Available: &unavailable,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Capacity != 300 || updated.Available {
		t.Errorf("unexpected hall after update %+v", updated)
	}
	if updated.Name != e.hall.Name {
		t.Errorf("expected untouched name %q, got %q", e.hall.Name, updated.Name)
	}

	bad := 120
	if _, err := e.service.Hall.Update(ctx, e.staff, hallID, &request.HallUpdateRequest{Capacity: &bad}); !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("expected invalid capacity, got %v", err)
	}

	available, err := e.service.Hall.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if available.TotalHalls != 0 {
		t.Errorf("expected no available halls, got %d", available.TotalHalls)
	}

	if err := e.service.Hall.Delete(ctx, e.user, hallID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := e.service.Hall.Delete(ctx, e.staff, hallID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := e.service.Hall.Delete(ctx, e.staff, hallID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if _, err := e.service.Hall.GetDetail(ctx, hallID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted hall to be hidden, got %v", err)
	}
	if _, err := e.service.Hall.Update(ctx, e.staff, uuid.NewString(), &request.HallUpdateRequest{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHallService_GetDetail(t *testing.T) {
	ctx := context.Background()
	e := newEnv(UniqueSlotScopeActive)

	active, err := e.service.Booking.Create(ctx, e.user, e.hall.ID.String(), bookingReq("2025-03-15", "10:00", "12:00", 80))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	cancelled, err := e.service.Booking.Create(ctx, e.user, e.hall.ID.String(), bookingReq("2025-03-15", "13:00", "14:00", 80))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.service.Booking.Cancel(ctx, e.user, cancelled.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	detail, err := e.service.Hall.GetDetail(ctx, e.hall.ID.String())
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Hall.ID != e.hall.ID.String() {
		t.Errorf("expected hall %s, got %s", e.hall.ID, detail.Hall.ID)
	}
	if len(detail.Bookings) != 1 || detail.Bookings[0].ID != active.ID {
		t.Errorf("expected only the active booking, got %+v", detail.Bookings)
	}

	if _, err := e.service.Hall.GetDetail(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHallService_List(t *testing.T) {
	ctx := context.Background()
	e := newEnv(UniqueSlotScopeActive)
	for _, name := range []string{"Banquet Hall D", "Auditorium A", "Conference Hall B"} {
		e.store.AddHall(&entity.Hall{Name: name, Capacity: 200, Available: true})
	}

	page, err := e.service.Hall.List(ctx, e.staff, request.NewPaginatedRequest("1", "3"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Pagination.Total != 4 || page.Pagination.TotalPages != 2 {
		t.Errorf("unexpected pagination %+v", page.Pagination)
	}
	if len(page.Data) != 3 || page.Data[0].Name != "Auditorium A" {
		t.Errorf("expected first page ordered by name, got %+v", page.Data)
	}

	second, err := e.service.Hall.List(ctx, e.staff, request.NewPaginatedRequest("2", "3"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(second.Data) != 1 || second.Data[0].Name != "Seminar Room C" {
		t.Errorf("unexpected second page %+v", second.Data)
	}

	if _, err := e.service.Hall.List(ctx, e.user, request.NewPaginatedRequest("", "")); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestHallService_EnsureHall(t *testing.T) {
	ctx := context.Background()
	e := newEnv(UniqueSlotScopeActive)

	created, err := e.service.Hall.EnsureHall(ctx, &entity.Hall{Name: "Auditorium A", Capacity: 500, Available: true})
	if err != nil || !created {
		t.Fatalf("expected hall to be created, got %v %v", created, err)
	}

	created, err = e.service.Hall.EnsureHall(ctx, &entity.Hall{Name: "Auditorium A", Capacity: 500, Available: true})
	if err != nil || created {
		t.Fatalf("expected existing hall to be kept, got %v %v", created, err)
	}
}
