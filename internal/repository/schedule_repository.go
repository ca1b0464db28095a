package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alysesue/bookings-api-sub000/internal/model"
)

type ScheduleRepository interface {
	// Save сохраняет расписание провайдера (для услуги или общее), заменяя дни и шаблоны целиком.
	Save(ctx context.Context, schedule *model.Schedule) error
	// GetByProvider возвращает расписание вместе с днями и шаблонами.
	GetByProvider(ctx context.Context, providerID uuid.UUID, serviceID *uuid.UUID) (*model.Schedule, error)
	// ListWithTemplates возвращает по одному расписанию на провайдера с подгруженными шаблонами.
	// Если serviceID задан, расписание под услугу приоритетнее общего.
	ListWithTemplates(ctx context.Context, providerIDs []uuid.UUID, serviceID *uuid.UUID) ([]model.Schedule, error)
}

type GormScheduleRepository struct {
	db *gorm.DB
}

func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

func scopeService(serviceID *uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if serviceID == nil {
			return q.Where("service_id IS NULL")
		}
		return q.Where("service_id = ?", *serviceID)
	}
}

func (r *GormScheduleRepository) Save(ctx context.Context, schedule *model.Schedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Schedule
		err := tx.Scopes(scopeService(schedule.ServiceID)).
			Where("provider_id = ?", schedule.ProviderID).
			First(&existing).Error

		switch {
		case err == nil:
			schedule.ID = existing.ID
			schedule.CreatedAt = existing.CreatedAt
			if err := tx.Where("schedule_id = ?", existing.ID).Delete(&model.WeekdaySchedule{}).Error; err != nil {
				return err
			}
			if err := tx.Where("schedule_id = ?", existing.ID).Delete(&model.TimeslotTemplate{}).Error; err != nil {
				return err
			}
			if err := tx.Omit(clause.Associations).Save(schedule).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Omit(clause.Associations).Create(schedule).Error; err != nil {
				return err
			}
		default:
			return err
		}

		for i := range schedule.Days {
			schedule.Days[i].ID = uuid.Nil
			schedule.Days[i].ScheduleID = schedule.ID
		}
		for i := range schedule.Templates {
			schedule.Templates[i].ID = uuid.Nil
			schedule.Templates[i].ScheduleID = schedule.ID
			schedule.Templates[i].ProviderID = schedule.ProviderID
		}

		if len(schedule.Days) > 0 {
			if err := tx.Create(&schedule.Days).Error; err != nil {
				return err
			}
		}
		if len(schedule.Templates) > 0 {
			if err := tx.CreateInBatches(&schedule.Templates, 500).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormScheduleRepository) GetByProvider(
	ctx context.Context,
	providerID uuid.UUID,
	serviceID *uuid.UUID,
) (*model.Schedule, error) {
	var s model.Schedule
	err := r.db.WithContext(ctx).
		Scopes(scopeService(serviceID)).
		Where("provider_id = ?", providerID).
		Preload("Days", func(q *gorm.DB) *gorm.DB { return q.Order("weekday ASC") }).
		Preload("Templates", func(q *gorm.DB) *gorm.DB { return q.Order("weekday ASC, start_time ASC, end_time ASC") }).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormScheduleRepository) ListWithTemplates(
	ctx context.Context,
	providerIDs []uuid.UUID,
	serviceID *uuid.UUID,
) ([]model.Schedule, error) {
	if len(providerIDs) == 0 {
		return []model.Schedule{}, nil
	}

	q := r.db.WithContext(ctx).Where("provider_id IN ?", providerIDs)
	if serviceID != nil {
		q = q.Where("(service_id = ? OR service_id IS NULL)", *serviceID)
	} else {
		q = q.Where("service_id IS NULL")
	}

	var candidates []model.Schedule
	if err := q.Find(&candidates).Error; err != nil {
		return nil, err
	}

	// По одному расписанию на провайдера: под услугу, иначе общее.
	chosen := make(map[uuid.UUID]model.Schedule, len(candidates))
	for _, s := range candidates {
		cur, ok := chosen[s.ProviderID]
		if !ok || (cur.ServiceID == nil && s.ServiceID != nil) {
			chosen[s.ProviderID] = s
		}
	}
	if len(chosen) == 0 {
		return []model.Schedule{}, nil
	}

	ids := make([]uuid.UUID, 0, len(chosen))
	for _, s := range chosen {
		ids = append(ids, s.ID)
	}

	var schedules []model.Schedule
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Preload("Templates", func(q *gorm.DB) *gorm.DB { return q.Order("weekday ASC, start_time ASC, end_time ASC") }).
		Order("provider_id ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}
