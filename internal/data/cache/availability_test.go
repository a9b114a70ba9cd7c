package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestKey(t *testing.T) {
	hallID := uuid.MustParse("6f1c2a3e-0000-4000-8000-000000000001")
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	if got, want := Key(hallID, date), "availability:6f1c2a3e-0000-4000-8000-000000000001:2025-03-15"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestAvailabilityCache_NilClient(t *testing.T) {
	ctx := context.Background()
	c := NewAvailabilityCache(nil, 0, zap.NewNop())
	hallID := uuid.New()
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	c.Set(ctx, hallID, date, true)
	if _, found := c.Get(ctx, hallID, date); found {
		t.Fatal("expected a miss without a client")
	}
	c.Invalidate(ctx, hallID, date)

	if c.ttl != 30*time.Second {
		t.Errorf("expected default ttl, got %v", c.ttl)
	}
}
