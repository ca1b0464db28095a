package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScheduleChanged уходит после каждого успешного сохранения расписания.
type ScheduleChanged struct {
	EventID    uuid.UUID  `json:"event_id"`
	ProviderID uuid.UUID  `json:"provider_id"`
	ServiceID  *uuid.UUID `json:"service_id,omitempty"`
	ScheduleID uuid.UUID  `json:"schedule_id"`
	Templates  int        `json:"templates"`
	At         time.Time  `json:"at"`
}

const EventTypeScheduleChanged = "schedule.changed"

type Publisher interface {
	PublishScheduleChanged(ctx context.Context, ev ScheduleChanged) error
	Close() error
}

// NopPublisher — заглушка, когда брокеры не настроены.
type NopPublisher struct{}

func (NopPublisher) PublishScheduleChanged(context.Context, ScheduleChanged) error { return nil }
func (NopPublisher) Close() error                                                  { return nil }
