package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alysesue/bookings-api-sub000/internal/calendar"
)

// Статус разового слота.
type TimeSlotStatus string

const (
	TimeSlotStatusPlanned   TimeSlotStatus = "planned"
	TimeSlotStatusCancelled TimeSlotStatus = "cancelled"
)

// time_slots — разовые датированные слоты поверх недельного расписания.
type TimeSlot struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	ProviderID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ServiceID  *uuid.UUID `gorm:"type:uuid;index"`

	StartsAt time.Time `gorm:"type:timestamp with time zone;not null;index"`
	EndsAt   time.Time `gorm:"type:timestamp with time zone;not null;index"`

	Capacity int `gorm:"not null"`

	Status TimeSlotStatus `gorm:"type:varchar(32);not null;default:'planned';index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Service  *Service  `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (s *TimeSlot) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (s TimeSlot) Range() calendar.TimeRange {
	return calendar.TimeRange{Start: s.StartsAt, End: s.EndsAt}
}

// ToCalendar переводит слот в доменный вид в таймзоне loc.
func (s TimeSlot) ToCalendar(loc *time.Location) calendar.TimeslotWithCapacity {
	return calendar.TimeslotWithCapacity{
		Timeslot: calendar.Timeslot{Start: s.StartsAt.In(loc), End: s.EndsAt.In(loc)},
		Capacity: s.Capacity,
	}
}
