package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей сервиса доступности.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Provider{},
		&Service{},
		&ProviderService{},
		&Schedule{},
		&WeekdaySchedule{},
		&TimeslotTemplate{},
		&TimeSlot{},
		&Booking{},
		&Event{},
	)
}
