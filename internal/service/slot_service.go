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
	"github.com/alysesue/bookings-api-sub000/internal/model"
	"github.com/alysesue/bookings-api-sub000/internal/repository"
)

type SlotService struct {
	slots     repository.SlotRepository
	providers repository.ProviderRepository
	audit     repository.EventRepository
	cache     cache.AvailabilityCache
	log       *zap.Logger
}

func NewSlotService(
	slots repository.SlotRepository,
	providers repository.ProviderRepository,
	audit repository.EventRepository,
	availabilityCache cache.AvailabilityCache,
	log *zap.Logger,
) *SlotService {
	return &SlotService{
		slots:     slots,
		providers: providers,
		audit:     audit,
		cache:     availabilityCache,
		log:       log.With(zap.String("component", "slot_service")),
	}
}

// OneOffSlotInput — датированный слот вне недельного расписания.
type OneOffSlotInput struct {
	ProviderID uuid.UUID
	ServiceID  *uuid.UUID
	Start      time.Time
	End        time.Time
	Capacity   int
}

// validateOneOffSlot возвращает причину отказа, если слот некорректен.
func validateOneOffSlot(in OneOffSlotInput) (bool, string) {
	if in.ProviderID == uuid.Nil {
		return false, "provider_id is required"
	}
	if in.Start.IsZero() || in.End.IsZero() || !in.End.After(in.Start) {
		return false, "invalid slot time range"
	}
	if in.Start.Second() != 0 || in.Start.Nanosecond() != 0 || in.End.Second() != 0 || in.End.Nanosecond() != 0 {
		return false, "slot bounds must be whole minutes"
	}
	if in.Capacity < 1 {
		return false, "capacity must be at least 1"
	}
	return true, ""
}

// CreateOneOff сохраняет разовый слот. Пересечение с другим запланированным слотом
// провайдера возвращает repository.ErrSlotOverlap.
func (s *SlotService) CreateOneOff(ctx context.Context, in OneOffSlotInput) (*model.TimeSlot, error) {
	if ok, reason := validateOneOffSlot(in); !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, reason)
	}

	if _, err := s.providers.GetByID(ctx, in.ProviderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}

	slot := &model.TimeSlot{
		ProviderID: in.ProviderID,
		ServiceID:  in.ServiceID,
		StartsAt:   in.Start,
		EndsAt:     in.End,
		Capacity:   in.Capacity,
		Status:     model.TimeSlotStatusPlanned,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}

	log := s.log.With(zap.String("provider_id", in.ProviderID.String()), zap.String("slot_id", slot.ID.String()))
	log.Info("one-off slot created", zap.Time("starts_at", slot.StartsAt), zap.Time("ends_at", slot.EndsAt))

	details, err := json.Marshal(map[string]any{
		"slot_id":   slot.ID,
		"starts_at": slot.StartsAt,
		"ends_at":   slot.EndsAt,
		"capacity":  slot.Capacity,
	})
	if err == nil {
		providerID := in.ProviderID
		err = s.audit.Create(ctx, &model.Event{
			EventType:  model.EventTypeOneOffSlotCreated,
			ProviderID: &providerID,
			Details:    datatypes.JSON(details),
		})
	}
	if err != nil {
		log.Warn("record audit event", zap.Error(err))
	}

	if err := s.cache.InvalidateProvider(ctx, in.ProviderID); err != nil {
		log.Warn("invalidate availability cache", zap.Error(err))
	}
	return slot, nil
}
