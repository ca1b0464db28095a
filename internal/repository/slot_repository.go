package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alysesue/bookings-api-sub000/internal/calendar"
	"github.com/alysesue/bookings-api-sub000/internal/model"
)

var ErrSlotOverlap = errors.New("slot overlaps an existing one-off slot")

// SlotOverlapError перечисляет пересекающиеся слоты.
type SlotOverlapError struct {
	Conflicts []calendar.TimeRange
}

func (e *SlotOverlapError) Error() string {
	return fmt.Sprintf("%s: %d conflict(s)", ErrSlotOverlap, len(e.Conflicts))
}

func (e *SlotOverlapError) Unwrap() error { return ErrSlotOverlap }

type SlotRepository interface {
	// Create сохраняет разовый слот; пересечение с запланированным слотом того же провайдера — ошибка.
	Create(ctx context.Context, slot *model.TimeSlot) error
	// ListOneOff — запланированные разовые слоты провайдеров, полностью лежащие в [from, to].
	ListOneOff(ctx context.Context, providerIDs []uuid.UUID, serviceID *uuid.UUID, from, to time.Time) ([]model.TimeSlot, error)
	// DeleteEndedBefore удаляет слоты, закончившиеся раньше t.
	DeleteEndedBefore(ctx context.Context, t time.Time) (int64, error)
}

type GormSlotRepository struct {
	db *gorm.DB
}

func NewGormSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

func (r *GormSlotRepository) Create(ctx context.Context, slot *model.TimeSlot) error {
	slot.StartsAt = slot.StartsAt.UTC()
	slot.EndsAt = slot.EndsAt.UTC()
	if slot.Status == "" {
		slot.Status = model.TimeSlotStatusPlanned
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nearby []model.TimeSlot
		err := tx.
			Where("provider_id = ?", slot.ProviderID).
			Where("status = ?", model.TimeSlotStatusPlanned).
			Where("starts_at < ? AND ends_at > ?", slot.EndsAt, slot.StartsAt).
			Find(&nearby).Error
		if err != nil {
			return err
		}

		existing := make([]calendar.TimeRange, 0, len(nearby))
		for _, s := range nearby {
			existing = append(existing, s.Range())
		}
		if has, conflicts := calendar.HasOverlap(slot.Range(), existing, false); has {
			return &SlotOverlapError{Conflicts: conflicts}
		}

		return tx.Create(slot).Error
	})
}

func (r *GormSlotRepository) ListOneOff(
	ctx context.Context,
	providerIDs []uuid.UUID,
	serviceID *uuid.UUID,
	from, to time.Time,
) ([]model.TimeSlot, error) {
	if len(providerIDs) == 0 {
		return []model.TimeSlot{}, nil
	}

	q := r.db.WithContext(ctx).
		Model(&model.TimeSlot{}).
		Where("provider_id IN ?", providerIDs).
		Where("starts_at >= ? AND ends_at <= ?", from.UTC(), to.UTC()).
		Where("status = ?", model.TimeSlotStatusPlanned)

	if serviceID != nil {
		q = q.Where("(service_id = ? OR service_id IS NULL)", *serviceID)
	}

	var slots []model.TimeSlot
	if err := q.Order("starts_at ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *GormSlotRepository) DeleteEndedBefore(ctx context.Context, t time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("ends_at < ?", t.UTC()).
		Delete(&model.TimeSlot{})
	return res.RowsAffected, res.Error
}
