package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// bookings — бронирования ведёт внешний сервис; здесь они нужны только для подсчёта занятости.
type Booking struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProviderID uuid.UUID  `gorm:"type:uuid;not null;index"`
	SlotID     *uuid.UUID `gorm:"type:uuid;index"`

	StartsAt time.Time `gorm:"type:timestamp with time zone;not null;index"`
	EndsAt   time.Time `gorm:"type:timestamp with time zone;not null"`

	CreatedAt   time.Time     `gorm:"not null;default:now()"`
	UpdatedAt   time.Time     `gorm:"not null;default:now()"`
	Status      BookingStatus `gorm:"type:varchar(32);not null;index"`
	CancelledAt *time.Time    `gorm:"type:timestamp with time zone"`
	Comment     string        `gorm:"type:text"`

	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (b *Booking) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
