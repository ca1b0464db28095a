package calendar

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Provider — исполнитель услуги как группа агрегации.
type Provider struct {
	ID   uuid.UUID
	Name string
}

func (p Provider) GroupKey() uuid.UUID { return p.ID }

type ProviderCapacity struct {
	Provider
	Capacity int
}

// AvailableTimeslotProviders — свободный интервал и провайдеры, которые его предлагают.
// TotalBooked заполняет вызывающий код по данным о бронированиях.
type AvailableTimeslotProviders struct {
	Timeslot
	Providers   []ProviderCapacity
	TotalBooked int
}

// AvailabilityCount — число различных провайдеров (не сумма ёмкостей).
func (a AvailableTimeslotProviders) AvailabilityCount() int {
	return len(a.Providers)
}

func (a AvailableTimeslotProviders) TotalCapacity() int {
	total := 0
	for _, p := range a.Providers {
		total += p.Capacity
	}
	return total
}

func (a AvailableTimeslotProviders) ProviderIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(a.Providers))
	for _, p := range a.Providers {
		ids = append(ids, p.ID)
	}
	return ids
}

// CapacityOf возвращает ёмкость конкретного провайдера в этом интервале.
func (a AvailableTimeslotProviders) CapacityOf(id uuid.UUID) (int, bool) {
	for _, p := range a.Providers {
		if p.ID == id {
			return p.Capacity, true
		}
	}
	return 0, false
}

// AvailabilityFromEntries превращает записи агрегатора в представление доступности.
// Порядок входа сохраняется; провайдеры внутри записи сортируются по id.
func AvailabilityFromEntries(entries []*AggregatedEntry[uuid.UUID, Provider]) []AvailableTimeslotProviders {
	out := make([]AvailableTimeslotProviders, 0, len(entries))
	for _, e := range entries {
		item := AvailableTimeslotProviders{
			Timeslot:  e.Timeslot,
			Providers: make([]ProviderCapacity, 0, e.Len()),
		}
		for _, c := range e.contributions {
			item.Providers = append(item.Providers, ProviderCapacity{
				Provider: c.Group,
				Capacity: c.Timeslot.Capacity,
			})
		}
		slices.SortFunc(item.Providers, func(x, y ProviderCapacity) int {
			return strings.Compare(x.ID.String(), y.ID.String())
		})
		out = append(out, item)
	}
	return out
}
