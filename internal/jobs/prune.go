package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/alysesue/bookings-api-sub000/internal/model"
)

type slotPruner interface {
	DeleteEndedBefore(ctx context.Context, t time.Time) (int64, error)
}

type eventRecorder interface {
	Create(ctx context.Context, event *model.Event) error
}

// PruneSlotsJob удаляет разовые слоты, закончившиеся раньше now - retention.
type PruneSlotsJob struct {
	slots     slotPruner
	events    eventRecorder
	retention time.Duration
	log       *zap.Logger
	now       func() time.Time
}

func NewPruneSlotsJob(slots slotPruner, events eventRecorder, retention time.Duration, log *zap.Logger) *PruneSlotsJob {
	return &PruneSlotsJob{
		slots:     slots,
		events:    events,
		retention: retention,
		log:       log,
		now:       time.Now,
	}
}

func (j *PruneSlotsJob) Name() string { return "prune_slots" }

func (j *PruneSlotsJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)

	deleted, err := j.slots.DeleteEndedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete slots ended before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if deleted == 0 {
		j.log.Debug("no slots to prune", zap.Time("cutoff", cutoff))
		return nil
	}

	details, err := json.Marshal(map[string]any{
		"deleted": deleted,
		"cutoff":  cutoff,
	})
	if err != nil {
		return fmt.Errorf("marshal prune details: %w", err)
	}
	if err := j.events.Create(ctx, &model.Event{
		EventType: model.EventTypeSlotsPruned,
		Details:   datatypes.JSON(details),
	}); err != nil {
		return fmt.Errorf("record prune event: %w", err)
	}

	j.log.Info("slots pruned", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	return nil
}
