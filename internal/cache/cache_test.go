package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestNopCache(t *testing.T) {
	var c AvailabilityCache = NopCache{}
	ctx := context.Background()

	if err := c.Set(ctx, "k", []uuid.UUID{uuid.New()}, map[string]int{"a": 1}); err != nil {
		t.Fatalf("set: %v", err)
	}
	var dst map[string]int
	if ok, err := c.Get(ctx, "k", &dst); ok || err != nil {
		t.Fatalf("nop cache must always miss, got ok=%v err=%v", ok, err)
	}
	if err := c.InvalidateProvider(ctx, uuid.New()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
}
