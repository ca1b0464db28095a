// Package repotest поднимает in-memory sqlite со схемой сервиса для тестов репозиториев и сервисов.
package repotest

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Схема написана руками: postgres-специфичные default'ы (gen_random_uuid(), now()) sqlite не понимает.
var schema = []string{
	`CREATE TABLE providers (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		description TEXT,
		time_zone TEXT NOT NULL DEFAULT 'UTC',
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE services (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		default_duration_min INTEGER,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE provider_services (
		provider_id TEXT NOT NULL,
		service_id TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		PRIMARY KEY (provider_id, service_id)
	);`,
	`CREATE TABLE schedules (
		id TEXT PRIMARY KEY,
		provider_id TEXT NOT NULL,
		service_id TEXT,
		slot_duration_minutes INTEGER NOT NULL,
		start_date DATE,
		end_date DATE,
		time_zone TEXT NOT NULL DEFAULT 'UTC',
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE weekday_schedules (
		id TEXT PRIMARY KEY,
		schedule_id TEXT NOT NULL,
		weekday INTEGER NOT NULL,
		is_active BOOLEAN NOT NULL,
		open_time TEXT,
		close_time TEXT,
		capacity INTEGER NOT NULL,
		breaks JSON
	);`,
	`CREATE TABLE timeslot_templates (
		id TEXT PRIMARY KEY,
		schedule_id TEXT NOT NULL,
		provider_id TEXT NOT NULL,
		weekday INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		capacity INTEGER NOT NULL,
		created_at DATETIME
	);`,
	`CREATE TABLE time_slots (
		id TEXT PRIMARY KEY,
		provider_id TEXT NOT NULL,
		service_id TEXT,
		starts_at DATETIME NOT NULL,
		ends_at DATETIME NOT NULL,
		capacity INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'planned',
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE bookings (
		id TEXT PRIMARY KEY,
		provider_id TEXT NOT NULL,
		slot_id TEXT,
		starts_at DATETIME NOT NULL,
		ends_at DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		status TEXT NOT NULL,
		cancelled_at DATETIME,
		comment TEXT
	);`,
	`CREATE TABLE events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		created_at DATETIME,
		provider_id TEXT,
		schedule_id TEXT,
		details JSON
	);`,
}

// NewDB открывает отдельную in-memory базу на тест.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Каждое соединение к :memory: — своя база, поэтому держим ровно одно.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}
