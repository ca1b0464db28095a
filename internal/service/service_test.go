package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alysesue/bookings-api-sub000/internal/calendar"
	"github.com/alysesue/bookings-api-sub000/internal/config"
	"github.com/alysesue/bookings-api-sub000/internal/events"
	"github.com/alysesue/bookings-api-sub000/internal/model"
	"github.com/alysesue/bookings-api-sub000/internal/repository"
	"github.com/alysesue/bookings-api-sub000/internal/repository/repotest"
)

type fakeCache struct {
	values      map[string][]byte
	invalidated []uuid.UUID
	sets        int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, _ []uuid.UUID, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	c.sets++
	return nil
}

func (c *fakeCache) InvalidateProvider(_ context.Context, id uuid.UUID) error {
	c.invalidated = append(c.invalidated, id)
	clear(c.values)
	return nil
}

type fakePublisher struct {
	events []events.ScheduleChanged
}

func (p *fakePublisher) PublishScheduleChanged(_ context.Context, ev events.ScheduleChanged) error {
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

// env — сервисы поверх sqlite в памяти.
type env struct {
	db           *gorm.DB
	cache        *fakeCache
	publisher    *fakePublisher
	schedules    *ScheduleService
	availability *AvailabilityService
	slots        *SlotService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := repotest.NewDB(t)
	providers := repository.NewGormProviderRepository(db)
	scheduleRepo := repository.NewGormScheduleRepository(db)
	slotRepo := repository.NewGormSlotRepository(db)
	audit := repository.NewGormEventRepository(db)
	c := newFakeCache()
	pub := &fakePublisher{}
	log := zap.NewNop()

	cfg := config.AvailabilityConfig{
		MaxRangeDays:    62,
		YieldEvery:      1000,
		DefaultTimeZone: "UTC",
		Locale:          "ru",
		MaxPageSize:     100,
	}

	return &env{
		db:        db,
		cache:     c,
		publisher: pub,
		schedules: NewScheduleService(scheduleRepo, providers, repository.NewGormServiceRepository(db), audit, c, pub, log),
		availability: NewAvailabilityService(providers, scheduleRepo, slotRepo,
			repository.NewGormBookingRepository(db), c, cfg, log),
		slots: NewSlotService(slotRepo, providers, audit, c, log),
	}
}

func (e *env) provider(t *testing.T, name string) uuid.UUID {
	t.Helper()
	p := model.Provider{ID: uuid.New(), DisplayName: name, TimeZone: "UTC"}
	if err := e.db.Create(&p).Error; err != nil {
		t.Fatalf("seed provider: %v", err)
	}
	return p.ID
}

func mondayRequest(open, close string, capacity int, breaks ...calendar.BreakRequest) calendar.ScheduleRequest {
	return calendar.ScheduleRequest{
		SlotDurationMinutes: 60,
		Days: []calendar.DayRequest{{
			Weekday:   time.Monday,
			IsActive:  true,
			OpenTime:  open,
			CloseTime: close,
			Capacity:  capacity,
			Breaks:    breaks,
		}},
	}
}

// 2025-01-06 — понедельник.
func jan(day, hour, min int) time.Time {
	return time.Date(2025, 1, day, hour, min, 0, 0, time.UTC)
}
