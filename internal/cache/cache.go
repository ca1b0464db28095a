package cache

import (
	"context"

	"github.com/google/uuid"
)

// AvailabilityCache хранит готовые ответы по доступности.
// Записи привязаны к провайдерам, чтобы изменение расписания сбрасывало всё, что от него зависит.
type AvailabilityCache interface {
	// Get декодирует значение в dst; false — промах.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, providerIDs []uuid.UUID, value any) error
	InvalidateProvider(ctx context.Context, providerID uuid.UUID) error
}

// NopCache — кэш выключен.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error)      { return false, nil }
func (NopCache) Set(context.Context, string, []uuid.UUID, any) error { return nil }
func (NopCache) InvalidateProvider(context.Context, uuid.UUID) error { return nil }
