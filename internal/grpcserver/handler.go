package grpcserver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	availabilityv1 "github.com/alysesue/bookings-api-sub000/internal/api/availability/v1"
	"github.com/alysesue/bookings-api-sub000/internal/calendar"
	"github.com/alysesue/bookings-api-sub000/internal/model"
	"github.com/alysesue/bookings-api-sub000/internal/service"
)

const dateLayout = "2006-01-02"

type ScheduleService interface {
	Save(ctx context.Context, in service.SaveScheduleInput) (*service.SaveScheduleResult, error)
	Get(ctx context.Context, providerID uuid.UUID, serviceID *uuid.UUID) (*service.StoredSchedule, error)
}

type AvailabilityService interface {
	List(ctx context.Context, q service.AvailabilityQuery) (*service.AvailabilityResult, error)
}

type SlotService interface {
	CreateOneOff(ctx context.Context, in service.OneOffSlotInput) (*model.TimeSlot, error)
}

// Services — зависимости gRPC-обработчика.
type Services struct {
	Schedules    ScheduleService
	Availability AvailabilityService
	Slots        SlotService
}

type handler struct {
	svc Services
}

var _ availabilityv1.AvailabilityServiceServer = (*handler)(nil)

func (h *handler) ListAvailability(
	ctx context.Context,
	req *availabilityv1.ListAvailabilityRequest,
) (*availabilityv1.ListAvailabilityResponse, error) {
	q := service.AvailabilityQuery{
		From:          req.From,
		To:            req.To,
		TimeZone:      req.TimeZone,
		Locale:        req.Locale,
		OnlyAvailable: req.OnlyAvailable,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}
	for _, raw := range req.ProviderIDs {
		id, err := parseID("provider_ids", raw)
		if err != nil {
			return nil, toStatus(err)
		}
		q.ProviderIDs = append(q.ProviderIDs, id)
	}
	serviceID, err := parseOptionalID("service_id", req.ServiceID)
	if err != nil {
		return nil, toStatus(err)
	}
	q.ServiceID = serviceID

	res, err := h.svc.Availability.List(ctx, q)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &availabilityv1.ListAvailabilityResponse{
		From:     res.Range.Start,
		To:       res.Range.End,
		Slots:    make([]availabilityv1.Slot, 0, len(res.Page.Items)),
		Page:     res.Page.Page,
		PageSize: res.Page.PageSize,
		Total:    res.Page.Total,
		HasNext:  res.Page.HasNext,
	}
	for _, it := range res.Page.Items {
		slot := availabilityv1.Slot{
			Start:             it.Start,
			End:               it.End,
			Label:             it.Label,
			Providers:         make([]availabilityv1.ProviderCapacity, 0, len(it.Providers)),
			AvailabilityCount: it.AvailabilityCount(),
			TotalCapacity:     it.TotalCapacity(),
			TotalBooked:       it.TotalBooked,
			Remaining:         it.Remaining,
		}
		for _, p := range it.Providers {
			slot.Providers = append(slot.Providers, availabilityv1.ProviderCapacity{
				ProviderID: p.ID.String(),
				Name:       p.Name,
				Capacity:   p.Capacity,
			})
		}
		resp.Slots = append(resp.Slots, slot)
	}
	return resp, nil
}

func (h *handler) SaveSchedule(
	ctx context.Context,
	req *availabilityv1.SaveScheduleRequest,
) (*availabilityv1.SaveScheduleResponse, error) {
	providerID, err := parseID("provider_id", req.ProviderID)
	if err != nil {
		return nil, toStatus(err)
	}
	serviceID, err := parseOptionalID("service_id", req.ServiceID)
	if err != nil {
		return nil, toStatus(err)
	}
	startDate, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		return nil, toStatus(err)
	}
	endDate, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		return nil, toStatus(err)
	}

	schedule := calendar.ScheduleRequest{SlotDurationMinutes: req.SlotDurationMinutes}
	for _, d := range req.Days {
		day := calendar.DayRequest{
			Weekday:   time.Weekday(d.Weekday),
			IsActive:  d.IsActive,
			OpenTime:  d.OpenTime,
			CloseTime: d.CloseTime,
			Capacity:  d.Capacity,
		}
		for _, b := range d.Breaks {
			day.Breaks = append(day.Breaks, calendar.BreakRequest{StartTime: b.StartTime, EndTime: b.EndTime})
		}
		schedule.Days = append(schedule.Days, day)
	}

	res, err := h.svc.Schedules.Save(ctx, service.SaveScheduleInput{
		ProviderID: providerID,
		ServiceID:  serviceID,
		TimeZone:   req.TimeZone,
		StartDate:  startDate,
		EndDate:    endDate,
		Schedule:   schedule,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return &availabilityv1.SaveScheduleResponse{
		ScheduleID: res.ScheduleID.String(),
		TimeZone:   res.TimeZone,
		Templates:  mapTemplates(res.Templates),
	}, nil
}

func (h *handler) GetSchedule(
	ctx context.Context,
	req *availabilityv1.GetScheduleRequest,
) (*availabilityv1.GetScheduleResponse, error) {
	providerID, err := parseID("provider_id", req.ProviderID)
	if err != nil {
		return nil, toStatus(err)
	}
	serviceID, err := parseOptionalID("service_id", req.ServiceID)
	if err != nil {
		return nil, toStatus(err)
	}

	stored, err := h.svc.Schedules.Get(ctx, providerID, serviceID)
	if err != nil {
		return nil, toStatus(err)
	}

	asRequest := stored.Schedule.ToRequest()
	resp := &availabilityv1.GetScheduleResponse{
		ScheduleID:          stored.ID.String(),
		ProviderID:          stored.ProviderID.String(),
		TimeZone:            stored.TimeZone,
		StartDate:           formatOptionalDate(stored.StartDate),
		EndDate:             formatOptionalDate(stored.EndDate),
		SlotDurationMinutes: asRequest.SlotDurationMinutes,
		Days:                make([]availabilityv1.Day, 0, len(asRequest.Days)),
		Templates:           mapTemplates(stored.Templates),
	}
	if stored.ServiceID != nil {
		resp.ServiceID = stored.ServiceID.String()
	}
	for _, d := range asRequest.Days {
		day := availabilityv1.Day{
			Weekday:   int(d.Weekday),
			IsActive:  d.IsActive,
			OpenTime:  d.OpenTime,
			CloseTime: d.CloseTime,
			Capacity:  d.Capacity,
		}
		for _, b := range d.Breaks {
			day.Breaks = append(day.Breaks, availabilityv1.Break{StartTime: b.StartTime, EndTime: b.EndTime})
		}
		resp.Days = append(resp.Days, day)
	}
	return resp, nil
}

func (h *handler) CreateOneOffSlot(
	ctx context.Context,
	req *availabilityv1.CreateOneOffSlotRequest,
) (*availabilityv1.CreateOneOffSlotResponse, error) {
	providerID, err := parseID("provider_id", req.ProviderID)
	if err != nil {
		return nil, toStatus(err)
	}
	serviceID, err := parseOptionalID("service_id", req.ServiceID)
	if err != nil {
		return nil, toStatus(err)
	}

	slot, err := h.svc.Slots.CreateOneOff(ctx, service.OneOffSlotInput{
		ProviderID: providerID,
		ServiceID:  serviceID,
		Start:      req.Start,
		End:        req.End,
		Capacity:   req.Capacity,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return &availabilityv1.CreateOneOffSlotResponse{
		SlotID: slot.ID.String(),
		Start:  slot.StartsAt,
		End:    slot.EndsAt,
		Status: string(slot.Status),
	}, nil
}

func mapTemplates(tpls []calendar.TimeslotTemplate) []availabilityv1.Template {
	out := make([]availabilityv1.Template, 0, len(tpls))
	for _, t := range tpls {
		out = append(out, availabilityv1.Template{
			Weekday:   int(t.Weekday),
			StartTime: t.Start.String(),
			EndTime:   t.End.String(),
			Capacity:  t.Capacity,
		})
	}
	return out
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s: %q is not a valid uuid", service.ErrInvalidArgument, field, raw)
	}
	return id, nil
}

func parseOptionalID(field, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseOptionalDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: expected YYYY-MM-DD, got %q", service.ErrInvalidArgument, field, raw)
	}
	return &t, nil
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
