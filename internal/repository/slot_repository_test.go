package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/alysesue/bookings-api-sub000/internal/model"
	"github.com/alysesue/bookings-api-sub000/internal/repository/repotest"
)

func at(day, hour, min int) time.Time {
	return time.Date(2025, 1, day, hour, min, 0, 0, time.UTC)
}

func TestGormSlotRepository_CreateRejectsOverlap(t *testing.T) {
	db := repotest.NewDB(t)
	repo := NewGormSlotRepository(db)
	ctx := context.Background()
	providerID := uuid.New()

	first := &model.TimeSlot{ProviderID: providerID, StartsAt: at(6, 10, 0), EndsAt: at(6, 11, 0), Capacity: 1}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID == uuid.Nil || first.Status != model.TimeSlotStatusPlanned {
		t.Fatalf("expected id and planned status, got %+v", first)
	}

	overlapping := &model.TimeSlot{ProviderID: providerID, StartsAt: at(6, 10, 30), EndsAt: at(6, 11, 30), Capacity: 1}
	err := repo.Create(ctx, overlapping)
	if !errors.Is(err, ErrSlotOverlap) {
		t.Fatalf("expected ErrSlotOverlap, got %v", err)
	}
	var overlapErr *SlotOverlapError
	if !errors.As(err, &overlapErr) || len(overlapErr.Conflicts) != 1 {
		t.Fatalf("expected one conflict, got %v", err)
	}

	// Касание концами — не пересечение.
	touching := &model.TimeSlot{ProviderID: providerID, StartsAt: at(6, 11, 0), EndsAt: at(6, 12, 0), Capacity: 1}
	if err := repo.Create(ctx, touching); err != nil {
		t.Fatalf("touching slot must be accepted: %v", err)
	}

	// Другой провайдер может занять то же время.
	other := &model.TimeSlot{ProviderID: uuid.New(), StartsAt: at(6, 10, 30), EndsAt: at(6, 11, 30), Capacity: 1}
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("other provider: %v", err)
	}
}

func TestGormSlotRepository_ListOneOff(t *testing.T) {
	db := repotest.NewDB(t)
	repo := NewGormSlotRepository(db)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()
	serviceID := uuid.New()
	otherService := uuid.New()

	seed := []model.TimeSlot{
		{ProviderID: a, StartsAt: at(6, 9, 0), EndsAt: at(6, 10, 0), Capacity: 1},
		{ProviderID: a, StartsAt: at(6, 17, 0), EndsAt: at(6, 19, 0), Capacity: 1},
		{ProviderID: a, StartsAt: at(6, 12, 0), EndsAt: at(6, 13, 0), Capacity: 1, Status: model.TimeSlotStatusCancelled},
		{ProviderID: b, StartsAt: at(6, 14, 0), EndsAt: at(6, 15, 0), Capacity: 2, ServiceID: &serviceID},
		{ProviderID: b, StartsAt: at(6, 15, 0), EndsAt: at(6, 16, 0), Capacity: 2, ServiceID: &otherService},
		{ProviderID: uuid.New(), StartsAt: at(6, 11, 0), EndsAt: at(6, 12, 0), Capacity: 1},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	slots, err := repo.ListOneOff(ctx, []uuid.UUID{a, b}, nil, at(6, 8, 0), at(6, 18, 0))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	if !slots[0].StartsAt.Equal(at(6, 9, 0)) || !slots[2].StartsAt.Equal(at(6, 15, 0)) {
		t.Fatalf("unexpected order: %v, %v", slots[0].StartsAt, slots[2].StartsAt)
	}

	slots, err = repo.ListOneOff(ctx, []uuid.UUID{a, b}, &serviceID, at(6, 8, 0), at(6, 18, 0))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected slots without service or with the same service, got %d", len(slots))
	}
}

func TestGormSlotRepository_DeleteEndedBefore(t *testing.T) {
	db := repotest.NewDB(t)
	repo := NewGormSlotRepository(db)
	ctx := context.Background()
	providerID := uuid.New()

	for _, s := range []model.TimeSlot{
		{ProviderID: providerID, StartsAt: at(1, 9, 0), EndsAt: at(1, 10, 0), Capacity: 1},
		{ProviderID: providerID, StartsAt: at(2, 9, 0), EndsAt: at(2, 10, 0), Capacity: 1},
		{ProviderID: providerID, StartsAt: at(9, 9, 0), EndsAt: at(9, 10, 0), Capacity: 1},
	} {
		if err := repo.Create(ctx, &s); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	n, err := repo.DeleteEndedBefore(ctx, at(5, 0, 0))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}

	var left int64
	db.Model(&model.TimeSlot{}).Count(&left)
	if left != 1 {
		t.Fatalf("expected 1 slot left, got %d", left)
	}
}
