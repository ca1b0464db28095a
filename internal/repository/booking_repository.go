package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alysesue/bookings-api-sub000/internal/calendar"
	"github.com/alysesue/bookings-api-sub000/internal/model"
)

type BookingRepository interface {
	// CountActiveByWindow считает неотменённые бронирования провайдеров по точному (start, end)
	// среди тех, что полностью лежат в [from, to].
	CountActiveByWindow(ctx context.Context, providerIDs []uuid.UUID, from, to time.Time) (map[calendar.TimeslotKey]int, error)
}

// Реализация на GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) CountActiveByWindow(
	ctx context.Context,
	providerIDs []uuid.UUID,
	from, to time.Time,
) (map[calendar.TimeslotKey]int, error) {
	counts := make(map[calendar.TimeslotKey]int)
	if len(providerIDs) == 0 {
		return counts, nil
	}

	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Select("starts_at", "ends_at").
		Where("provider_id IN ?", providerIDs).
		Where("status <> ?", model.BookingStatusCancelled).
		Where("starts_at >= ? AND ends_at <= ?", from.UTC(), to.UTC()).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}

	for _, b := range bookings {
		key := calendar.Timeslot{Start: b.StartsAt, End: b.EndsAt}.Key()
		counts[key]++
	}
	return counts, nil
}
