package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/alysesue/bookings-api-sub000/internal/calendar"
	"github.com/alysesue/bookings-api-sub000/internal/model"
)

func TestScheduleService_Save(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	providerID := e.provider(t, "Anna")

	res, err := e.schedules.Save(ctx, SaveScheduleInput{
		ProviderID: providerID,
		Schedule: mondayRequest("09:00", "12:00", 2,
			calendar.BreakRequest{StartTime: "10:00", EndTime: "10:30"}),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if len(res.Templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(res.Templates))
	}
	if res.Templates[0].Start.String() != "09:00" || res.Templates[1].Start.String() != "10:30" {
		t.Fatalf("unexpected templates %+v", res.Templates)
	}
	if res.TimeZone != "UTC" {
		t.Fatalf("expected provider time zone, got %q", res.TimeZone)
	}

	if len(e.cache.invalidated) != 1 || e.cache.invalidated[0] != providerID {
		t.Fatalf("expected cache invalidation for provider, got %v", e.cache.invalidated)
	}
	if len(e.publisher.events) != 1 || e.publisher.events[0].ScheduleID != res.ScheduleID || e.publisher.events[0].Templates != 2 {
		t.Fatalf("unexpected published events %+v", e.publisher.events)
	}

	var audit []model.Event
	if err := e.db.Where("event_type = ?", model.EventTypeScheduleSaved).Find(&audit).Error; err != nil {
		t.Fatalf("load audit: %v", err)
	}
	if len(audit) != 1 || audit[0].ScheduleID == nil || *audit[0].ScheduleID != res.ScheduleID {
		t.Fatalf("unexpected audit events %+v", audit)
	}

	stored, err := e.schedules.Get(ctx, providerID, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	mon := stored.Schedule.Day(time.Monday)
	if !mon.IsActive || mon.Capacity != 2 || mon.OpenTime.String() != "09:00" || len(mon.Breaks) != 1 {
		t.Fatalf("unexpected stored monday %+v", mon)
	}
	if len(stored.Templates) != 2 || stored.ID != res.ScheduleID {
		t.Fatalf("unexpected stored schedule %+v", stored)
	}
}

func TestScheduleService_SaveCollectsViolations(t *testing.T) {
	e := newEnv(t)
	providerID := e.provider(t, "Anna")

	req := calendar.ScheduleRequest{
		SlotDurationMinutes: 30,
		Days: []calendar.DayRequest{
			{Weekday: time.Monday, IsActive: true, OpenTime: "25:00", CloseTime: "18:00", Capacity: 1},
			{Weekday: time.Tuesday, IsActive: true, OpenTime: "12:00", CloseTime: "10:00", Capacity: 0},
		},
	}
	_, err := e.schedules.Save(context.Background(), SaveScheduleInput{ProviderID: providerID, Schedule: req})

	var verr *calendar.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []calendar.ValidationCode{
		calendar.CodeInvalidTimeFormat,
		calendar.CodeOpenCloseTimesRequired,
		calendar.CodeInvalidCapacity,
		calendar.CodeCloseMustBeAfterOpen,
	}
	if len(verr.Violations) != len(want) {
		t.Fatalf("expected %d violations, got %v", len(want), verr.Violations)
	}
	for i, v := range verr.Violations {
		if v.Code != want[i] {
			t.Fatalf("violation %d: expected %v, got %v", i, want[i], v.Code)
		}
	}

	if len(e.publisher.events) != 0 || len(e.cache.invalidated) != 0 {
		t.Fatalf("nothing must happen for an invalid schedule")
	}
}

func TestScheduleService_SaveErrors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	providerID := e.provider(t, "Anna")
	missingService := uuid.New()
	start, end := jan(10, 0, 0), jan(5, 0, 0)

	cases := []struct {
		name string
		in   SaveScheduleInput
		want error
	}{
		{"unknown provider", SaveScheduleInput{ProviderID: uuid.New(), Schedule: mondayRequest("09:00", "12:00", 1)}, ErrProviderNotFound},
		{"unknown service", SaveScheduleInput{ProviderID: providerID, ServiceID: &missingService, Schedule: mondayRequest("09:00", "12:00", 1)}, ErrServiceNotFound},
		{"bad time zone", SaveScheduleInput{ProviderID: providerID, TimeZone: "Mars/Olympus", Schedule: mondayRequest("09:00", "12:00", 1)}, ErrInvalidArgument},
		{"reversed dates", SaveScheduleInput{ProviderID: providerID, StartDate: &start, EndDate: &end, Schedule: mondayRequest("09:00", "12:00", 1)}, ErrInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := e.schedules.Save(ctx, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := e.schedules.Get(ctx, providerID, nil); !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
}
