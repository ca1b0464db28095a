package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/alysesue/bookings-api-sub000/internal/calendar"
	"github.com/alysesue/bookings-api-sub000/internal/model"
	"github.com/alysesue/bookings-api-sub000/internal/repository/repotest"
)

func buildSchedule(t *testing.T, providerID uuid.UUID, serviceID *uuid.UUID, open, close string) *model.Schedule {
	t.Helper()

	ws := calendar.NewWeeklySchedule(60)
	d := ws.Day(time.Monday)
	d.IsActive = true
	d.Capacity = 1
	d.SetHours(calendar.MustTimeOfDay(open), calendar.MustTimeOfDay(close))
	d.AddBreak(calendar.MustTimeOfDay("12:00"), calendar.MustTimeOfDay("13:00"))

	tpls, err := calendar.GenerateTemplates(ws)
	if err != nil {
		t.Fatalf("generate templates: %v", err)
	}

	return &model.Schedule{
		ProviderID:          providerID,
		ServiceID:           serviceID,
		SlotDurationMinutes: ws.SlotDurationMinutes,
		TimeZone:            "UTC",
		Days:                model.NewWeekdaySchedules(ws),
		Templates:           model.NewTimeslotTemplates(providerID, tpls),
	}
}

func TestGormScheduleRepository_SaveAndReplace(t *testing.T) {
	db := repotest.NewDB(t)
	repo := NewGormScheduleRepository(db)
	ctx := context.Background()
	providerID := uuid.New()

	first := buildSchedule(t, providerID, nil, "09:00", "14:00")
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.ID == uuid.Nil {
		t.Fatalf("expected schedule id to be assigned")
	}

	got, err := repo.GetByProvider(ctx, providerID, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Days) != 1 || len(got.Templates) != 4 {
		t.Fatalf("expected 1 day and 4 templates, got %d/%d", len(got.Days), len(got.Templates))
	}
	if got.Templates[0].StartTime != "09:00" || got.Templates[3].StartTime != "13:00" {
		t.Fatalf("unexpected template order: %+v", got.Templates)
	}
	if len(got.Days[0].Breaks) != 1 || got.Days[0].Breaks[0].Start != "12:00" {
		t.Fatalf("breaks not stored: %+v", got.Days[0].Breaks)
	}

	second := buildSchedule(t, providerID, nil, "09:00", "11:00")
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("save again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same schedule to be updated, got %s vs %s", second.ID, first.ID)
	}

	got, err = repo.GetByProvider(ctx, providerID, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Templates) != 2 || len(got.Days) != 1 {
		t.Fatalf("expected replaced rows, got %d templates and %d days", len(got.Templates), len(got.Days))
	}

	var total int64
	db.Model(&model.TimeslotTemplate{}).Count(&total)
	if total != 2 {
		t.Fatalf("old templates must be removed, %d rows left", total)
	}
}

func TestGormScheduleRepository_ListWithTemplatesPrefersService(t *testing.T) {
	db := repotest.NewDB(t)
	repo := NewGormScheduleRepository(db)
	ctx := context.Background()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	serviceID := uuid.New()

	for _, s := range []*model.Schedule{
		buildSchedule(t, a, nil, "09:00", "11:00"),
		buildSchedule(t, a, &serviceID, "15:00", "16:00"),
		buildSchedule(t, b, nil, "10:00", "12:00"),
		buildSchedule(t, c, &serviceID, "08:00", "09:00"),
	} {
		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	schedules, err := repo.ListWithTemplates(ctx, []uuid.UUID{a, b, c}, &serviceID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(schedules) != 3 {
		t.Fatalf("expected one schedule per provider, got %d", len(schedules))
	}
	byProvider := make(map[uuid.UUID]model.Schedule)
	for _, s := range schedules {
		byProvider[s.ProviderID] = s
	}
	if s := byProvider[a]; s.ServiceID == nil || len(s.Templates) != 1 || s.Templates[0].StartTime != "15:00" {
		t.Fatalf("provider A must use the service schedule, got %+v", s)
	}
	if s := byProvider[b]; s.ServiceID != nil || len(s.Templates) != 2 {
		t.Fatalf("provider B must fall back to the general schedule, got %+v", s)
	}

	general, err := repo.ListWithTemplates(ctx, []uuid.UUID{a, b, c}, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(general) != 2 {
		t.Fatalf("expected only general schedules, got %d", len(general))
	}

	empty, err := repo.ListWithTemplates(ctx, nil, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result, got %v %v", empty, err)
	}
}
