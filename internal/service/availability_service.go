package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/alysesue/bookings-api-sub000/internal/cache"
	"github.com/alysesue/bookings-api-sub000/internal/calendar"
	"github.com/alysesue/bookings-api-sub000/internal/config"
	"github.com/alysesue/bookings-api-sub000/internal/model"
	"github.com/alysesue/bookings-api-sub000/internal/repository"
	"github.com/alysesue/bookings-api-sub000/internal/telemetry"
)

type AvailabilityService struct {
	providers repository.ProviderRepository
	schedules repository.ScheduleRepository
	slots     repository.SlotRepository
	bookings  repository.BookingRepository
	cache     cache.AvailabilityCache
	cfg       config.AvailabilityConfig
	log       *zap.Logger
}

func NewAvailabilityService(
	providers repository.ProviderRepository,
	schedules repository.ScheduleRepository,
	slots repository.SlotRepository,
	bookings repository.BookingRepository,
	availabilityCache cache.AvailabilityCache,
	cfg config.AvailabilityConfig,
	log *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		providers: providers,
		schedules: schedules,
		slots:     slots,
		bookings:  bookings,
		cache:     availabilityCache,
		cfg:       cfg,
		log:       log.With(zap.String("component", "availability_service")),
	}
}

// AvailabilityQuery — запрос свободных интервалов. Нужны ProviderIDs или ServiceID.
// Пустые TimeZone и Locale берутся из конфигурации.
type AvailabilityQuery struct {
	ProviderIDs   []uuid.UUID
	ServiceID     *uuid.UUID
	From          time.Time
	To            time.Time
	TimeZone      string
	Locale        string
	OnlyAvailable bool
	Page          int
	PageSize      int
}

// AvailabilitySlot — интервал с провайдерами, остатком мест и подписью для клиента.
type AvailabilitySlot struct {
	calendar.AvailableTimeslotProviders
	Remaining int
	Label     string
}

type AvailabilityResult struct {
	Range calendar.TimeRange
	Page  calendar.Page[AvailabilitySlot]
}

// List собирает доступность провайдеров в окне: шаблоны и разовые слоты агрегируются
// по точному интервалу, затем вычитаются активные бронирования.
func (s *AvailabilityService) List(ctx context.Context, q AvailabilityQuery) (_ *AvailabilityResult, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "AvailabilityService.List")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tz := q.TimeZone
	if tz == "" {
		tz = s.cfg.DefaultTimeZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: time zone %q", ErrInvalidArgument, tz)
	}
	locale := q.Locale
	if locale == "" {
		locale = s.cfg.Locale
	}

	if s.cfg.MaxPageSize > 0 && q.PageSize > s.cfg.MaxPageSize {
		q.PageSize = s.cfg.MaxPageSize
	}

	window, err := calendar.NormalizeTimeRange(q.From, q.To, loc, s.cfg.MaxRange())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	providers, err := s.resolveProviders(ctx, q)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
	}
	span.SetAttributes(
		attribute.Int("availability.providers", len(ids)),
		attribute.String("availability.range", window.String()),
	)

	key := cacheKey(ids, q, window, tz, locale)
	var cached AvailabilityResult
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.Warn("availability cache get", zap.Error(err))
	} else if hit {
		span.SetAttributes(attribute.Bool("availability.cache_hit", true))
		return &cached, nil
	}

	items, err := s.aggregate(ctx, providers, q.ServiceID, window)
	if err != nil {
		return nil, err
	}

	booked, err := s.bookings.CountActiveByWindow(ctx, ids, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	out := make([]AvailabilitySlot, 0, len(items))
	for _, item := range items {
		item.TotalBooked = booked[item.Key()]
		remaining := max(item.TotalCapacity()-item.TotalBooked, 0)
		if q.OnlyAvailable && remaining == 0 {
			continue
		}
		out = append(out, AvailabilitySlot{
			AvailableTimeslotProviders: item,
			Remaining:                  remaining,
			Label:                      calendar.FormatTimeslot(item.Timeslot, loc, locale),
		})
	}

	res := &AvailabilityResult{
		Range: window,
		Page:  calendar.Paginate(out, q.Page, q.PageSize),
	}
	span.SetAttributes(attribute.Int("availability.slots", len(out)))

	if err := s.cache.Set(ctx, key, ids, res); err != nil {
		s.log.Warn("availability cache set", zap.Error(err))
	}
	return res, nil
}

func (s *AvailabilityService) resolveProviders(ctx context.Context, q AvailabilityQuery) ([]model.Provider, error) {
	var (
		providers []model.Provider
		err       error
	)
	switch {
	case len(q.ProviderIDs) > 0:
		providers, err = s.providers.ListByIDs(ctx, q.ProviderIDs)
	case q.ServiceID != nil:
		providers, err = s.providers.ListByService(ctx, *q.ServiceID)
	default:
		return nil, fmt.Errorf("%w: provider_ids or service_id is required", ErrInvalidArgument)
	}
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	if len(providers) == 0 {
		return nil, ErrProviderNotFound
	}
	return providers, nil
}

func (s *AvailabilityService) aggregate(
	ctx context.Context,
	providers []model.Provider,
	serviceID *uuid.UUID,
	window calendar.TimeRange,
) ([]calendar.AvailableTimeslotProviders, error) {
	ids := make([]uuid.UUID, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
	}

	schedules, err := s.schedules.ListWithTemplates(ctx, ids, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	byProvider := make(map[uuid.UUID]*model.Schedule, len(schedules))
	for i := range schedules {
		byProvider[schedules[i].ProviderID] = &schedules[i]
	}

	oneOff, err := s.slots.ListOneOff(ctx, ids, serviceID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("list one-off slots: %w", err)
	}
	oneOffByProvider := make(map[uuid.UUID][]calendar.TimeslotWithCapacity)
	for _, slot := range oneOff {
		oneOffByProvider[slot.ProviderID] = append(oneOffByProvider[slot.ProviderID], slot.ToCalendar(window.Start.Location()))
	}

	agg := calendar.NewAggregator[uuid.UUID, calendar.Provider](calendar.WithYieldEvery(s.cfg.YieldEvery))
	for _, p := range providers {
		seqs := []iter.Seq[calendar.TimeslotWithCapacity]{
			calendar.ExpandOneOff(oneOffByProvider[p.ID], window),
		}
		if sched, ok := byProvider[p.ID]; ok {
			seq, err := scheduleInstances(sched, p, window)
			if err != nil {
				return nil, err
			}
			seqs = append(seqs, seq)
		}

		group := calendar.Provider{ID: p.ID, Name: p.DisplayName}
		if err := agg.Aggregate(ctx, group, calendar.Concat(seqs...)); err != nil {
			return nil, fmt.Errorf("aggregate availability: %w", err)
		}
	}

	return calendar.AvailabilityFromEntries(agg.Sorted()), nil
}

// scheduleInstances разворачивает шаблоны расписания в его таймзоне,
// окно обрезается сроком действия расписания.
func scheduleInstances(
	sched *model.Schedule,
	p model.Provider,
	window calendar.TimeRange,
) (iter.Seq[calendar.TimeslotWithCapacity], error) {
	tz := sched.TimeZone
	if tz == "" {
		tz = p.TimeZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: time zone %q: %w", sched.ID, tz, err)
	}

	templates := make([]calendar.TimeslotTemplate, 0, len(sched.Templates))
	for _, t := range sched.Templates {
		tpl, err := t.ToCalendar()
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", sched.ID, err)
		}
		templates = append(templates, tpl)
	}

	r := window.In(loc)
	from, to := sched.ValidityRange(loc)
	if !from.IsZero() && from.After(r.Start) {
		r.Start = from
	}
	if !to.IsZero() && to.Before(r.End) {
		r.End = to
	}
	if !r.End.After(r.Start) {
		return func(func(calendar.TimeslotWithCapacity) bool) {}, nil
	}
	return calendar.ExpandTemplates(templates, r), nil
}

func cacheKey(ids []uuid.UUID, q AvailabilityQuery, window calendar.TimeRange, tz, locale string) string {
	sorted := make([]string, 0, len(ids))
	for _, id := range ids {
		sorted = append(sorted, id.String())
	}
	slices.Sort(sorted)

	service := ""
	if q.ServiceID != nil {
		service = q.ServiceID.String()
	}

	raw := fmt.Sprintf("%s|%s|%d|%d|%s|%s|%t|%d|%d",
		strings.Join(sorted, ","), service,
		window.Start.UnixNano(), window.End.UnixNano(),
		tz, locale, q.OnlyAvailable, q.Page, q.PageSize,
	)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
