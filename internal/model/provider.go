package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider — исполнитель услуг (консультант, мастер и т.п.), чью доступность мы считаем.
type Provider struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	// Имя/отображаемое название в интерфейсе.
	DisplayName string `gorm:"type:varchar(255);not null"`

	// Краткое описание, специализация и т.п.
	Description string `gorm:"type:text"`

	// IANA-таймзона, в которой заданы часы работы.
	TimeZone string `gorm:"type:varchar(64);not null;default:'UTC'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Services []Service `gorm:"many2many:provider_services;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`

	Schedules []Schedule `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Slots     []TimeSlot `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (p *Provider) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// ensureID проставляет id на стороне приложения: gen_random_uuid() есть не во всех СУБД.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
