package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/alysesue/bookings-api-sub000/internal/cache"
	"github.com/alysesue/bookings-api-sub000/internal/calendar"
	"github.com/alysesue/bookings-api-sub000/internal/events"
	"github.com/alysesue/bookings-api-sub000/internal/model"
	"github.com/alysesue/bookings-api-sub000/internal/repository"
)

type ScheduleService struct {
	schedules repository.ScheduleRepository
	providers repository.ProviderRepository
	services  repository.ServiceRepository
	audit     repository.EventRepository
	cache     cache.AvailabilityCache
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewScheduleService(
	schedules repository.ScheduleRepository,
	providers repository.ProviderRepository,
	services repository.ServiceRepository,
	audit repository.EventRepository,
	availabilityCache cache.AvailabilityCache,
	publisher events.Publisher,
	log *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		providers: providers,
		services:  services,
		audit:     audit,
		cache:     availabilityCache,
		publisher: publisher,
		log:       log.With(zap.String("component", "schedule_service")),
		now:       time.Now,
	}
}

// SaveScheduleInput — недельное расписание провайдера (общее или под услугу).
// Пустой TimeZone означает таймзону провайдера. StartDate/EndDate ограничивают срок действия (включительно).
type SaveScheduleInput struct {
	ProviderID uuid.UUID
	ServiceID  *uuid.UUID
	TimeZone   string
	StartDate  *time.Time
	EndDate    *time.Time
	Schedule   calendar.ScheduleRequest
}

type SaveScheduleResult struct {
	ScheduleID uuid.UUID
	TimeZone   string
	Templates  []calendar.TimeslotTemplate
}

// StoredSchedule — сохранённое расписание в доменном виде.
type StoredSchedule struct {
	ID         uuid.UUID
	ProviderID uuid.UUID
	ServiceID  *uuid.UUID
	TimeZone   string
	StartDate  *time.Time
	EndDate    *time.Time
	Schedule   *calendar.WeeklySchedule
	Templates  []calendar.TimeslotTemplate
}

// Save валидирует расписание, нарезает шаблоны и заменяет ими сохранённые.
// Любое нарушение бизнес-правил возвращается как *calendar.ValidationError со всеми нарушениями сразу.
func (s *ScheduleService) Save(ctx context.Context, in SaveScheduleInput) (*SaveScheduleResult, error) {
	provider, err := s.providers.GetByID(ctx, in.ProviderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	if in.ServiceID != nil {
		if _, err := s.services.GetByID(ctx, *in.ServiceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrServiceNotFound
			}
			return nil, fmt.Errorf("get service: %w", err)
		}
	}

	tz := in.TimeZone
	if tz == "" {
		tz = provider.TimeZone
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("%w: time zone %q", ErrInvalidArgument, tz)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrInvalidArgument)
	}

	weekly, violations := calendar.ScheduleFromRequest(in.Schedule)
	violations = append(violations, calendar.ValidateSchedule(weekly)...)
	if len(violations) > 0 {
		return nil, &calendar.ValidationError{Violations: violations}
	}

	templates, err := calendar.GenerateTemplates(weekly)
	if err != nil {
		return nil, fmt.Errorf("generate templates: %w", err)
	}

	row := &model.Schedule{
		ProviderID:          in.ProviderID,
		ServiceID:           in.ServiceID,
		SlotDurationMinutes: weekly.SlotDurationMinutes,
		StartDate:           toDate(in.StartDate),
		EndDate:             toDate(in.EndDate),
		TimeZone:            tz,
		Days:                model.NewWeekdaySchedules(weekly),
		Templates:           model.NewTimeslotTemplates(in.ProviderID, templates),
	}
	if err := s.schedules.Save(ctx, row); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}

	log := s.log.With(zap.String("provider_id", in.ProviderID.String()), zap.String("schedule_id", row.ID.String()))
	log.Info("schedule saved", zap.Int("templates", len(templates)))

	// Расписание уже сохранено: сбои побочных действий только логируются.
	s.recordAudit(ctx, log, row, len(templates))
	if err := s.cache.InvalidateProvider(ctx, in.ProviderID); err != nil {
		log.Warn("invalidate availability cache", zap.Error(err))
	}
	if err := s.publisher.PublishScheduleChanged(ctx, events.ScheduleChanged{
		ProviderID: in.ProviderID,
		ServiceID:  in.ServiceID,
		ScheduleID: row.ID,
		Templates:  len(templates),
		At:         s.now().UTC(),
	}); err != nil {
		log.Warn("publish schedule changed", zap.Error(err))
	}

	return &SaveScheduleResult{ScheduleID: row.ID, TimeZone: tz, Templates: templates}, nil
}

func (s *ScheduleService) recordAudit(ctx context.Context, log *zap.Logger, row *model.Schedule, templates int) {
	details, err := json.Marshal(map[string]any{
		"templates":             templates,
		"slot_duration_minutes": row.SlotDurationMinutes,
		"time_zone":             row.TimeZone,
	})
	if err != nil {
		log.Warn("marshal audit details", zap.Error(err))
		return
	}
	providerID, scheduleID := row.ProviderID, row.ID
	if err := s.audit.Create(ctx, &model.Event{
		EventType:  model.EventTypeScheduleSaved,
		ProviderID: &providerID,
		ScheduleID: &scheduleID,
		Details:    datatypes.JSON(details),
	}); err != nil {
		log.Warn("record audit event", zap.Error(err))
	}
}

// Get возвращает сохранённое расписание провайдера (serviceID == nil — общее).
func (s *ScheduleService) Get(ctx context.Context, providerID uuid.UUID, serviceID *uuid.UUID) (*StoredSchedule, error) {
	row, err := s.schedules.GetByProvider(ctx, providerID, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	weekly, err := row.ToWeekly()
	if err != nil {
		return nil, err
	}
	templates := make([]calendar.TimeslotTemplate, 0, len(row.Templates))
	for _, t := range row.Templates {
		tpl, err := t.ToCalendar()
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", row.ID, err)
		}
		templates = append(templates, tpl)
	}

	return &StoredSchedule{
		ID:         row.ID,
		ProviderID: row.ProviderID,
		ServiceID:  row.ServiceID,
		TimeZone:   row.TimeZone,
		StartDate:  fromDate(row.StartDate),
		EndDate:    fromDate(row.EndDate),
		Schedule:   weekly,
		Templates:  templates,
	}, nil
}

func toDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	date := datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	return &date
}

func fromDate(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}
