package calendar

import (
	"context"
	"iter"
	"runtime"
	"slices"
	"time"
)

// DefaultYieldEvery — через сколько обработанных слотов агрегатор отдаёт управление планировщику.
const DefaultYieldEvery = 1000

// TimeslotKey однозначно идентифицирует пару (start, end) в наносекундах Unix.
type TimeslotKey struct {
	Start int64
	End   int64
}

func (k TimeslotKey) Timeslot() Timeslot {
	return Timeslot{Start: time.Unix(0, k.Start), End: time.Unix(0, k.End)}
}

// Grouper — участник агрегации (например, провайдер). Два значения с одинаковым
// GroupKey считаются одной и той же группой, даже если это разные экземпляры.
type Grouper[K comparable] interface {
	GroupKey() K
}

// Contribution — вклад одной группы в конкретный слот.
type Contribution[G any] struct {
	Group    G
	Timeslot TimeslotWithCapacity
}

// AggregatedEntry — один временной интервал и все группы, которые его предоставили.
type AggregatedEntry[K comparable, G Grouper[K]] struct {
	Timeslot Timeslot

	contributions map[K]Contribution[G]
}

func newAggregatedEntry[K comparable, G Grouper[K]](ts Timeslot) *AggregatedEntry[K, G] {
	return &AggregatedEntry[K, G]{
		Timeslot:      ts,
		contributions: make(map[K]Contribution[G]),
	}
}

// AddGroup регистрирует вклад группы. Повторный вклад той же группы игнорируется
// и возвращает false.
func (e *AggregatedEntry[K, G]) AddGroup(g G, ts TimeslotWithCapacity) bool {
	key := g.GroupKey()
	if _, exists := e.contributions[key]; exists {
		return false
	}
	e.contributions[key] = Contribution[G]{Group: g, Timeslot: ts}
	return true
}

// Contributions возвращает копию вкладов по ключу группы.
func (e *AggregatedEntry[K, G]) Contributions() map[K]Contribution[G] {
	out := make(map[K]Contribution[G], len(e.contributions))
	for k, v := range e.contributions {
		out[k] = v
	}
	return out
}

func (e *AggregatedEntry[K, G]) Has(key K) bool {
	_, ok := e.contributions[key]
	return ok
}

func (e *AggregatedEntry[K, G]) Len() int {
	return len(e.contributions)
}

// Aggregator сводит слоты разных групп в записи по точному (start, end).
// Не потокобезопасен: один экземпляр на один прогон агрегации.
type Aggregator[K comparable, G Grouper[K]] struct {
	entries    map[TimeslotKey]*AggregatedEntry[K, G]
	yieldEvery int
	processed  int
}

type AggregatorOption func(*aggregatorOptions)

type aggregatorOptions struct {
	yieldEvery int
}

// WithYieldEvery задаёт частоту кооперативных точек; n <= 0 отключает их.
func WithYieldEvery(n int) AggregatorOption {
	return func(o *aggregatorOptions) { o.yieldEvery = n }
}

func NewAggregator[K comparable, G Grouper[K]](opts ...AggregatorOption) *Aggregator[K, G] {
	o := aggregatorOptions{yieldEvery: DefaultYieldEvery}
	for _, opt := range opts {
		opt(&o)
	}
	return &Aggregator[K, G]{
		entries:    make(map[TimeslotKey]*AggregatedEntry[K, G]),
		yieldEvery: o.yieldEvery,
	}
}

// Aggregate добавляет все слоты группы. Каждые yieldEvery слотов агрегатор
// вызывает runtime.Gosched и проверяет ctx: отменённый контекст прерывает прогон.
func (a *Aggregator[K, G]) Aggregate(ctx context.Context, group G, instances iter.Seq[TimeslotWithCapacity]) error {
	for inst := range instances {
		key := inst.Key()
		entry, ok := a.entries[key]
		if !ok {
			entry = newAggregatedEntry[K, G](inst.Timeslot)
			a.entries[key] = entry
		}
		entry.AddGroup(group, inst)

		a.processed++
		if a.yieldEvery > 0 && a.processed%a.yieldEvery == 0 {
			runtime.Gosched()
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Entries возвращает записи по ключу. Порядок обхода не определён.
func (a *Aggregator[K, G]) Entries() map[TimeslotKey]*AggregatedEntry[K, G] {
	return a.entries
}

// Sorted возвращает записи, упорядоченные по (start, end).
func (a *Aggregator[K, G]) Sorted() []*AggregatedEntry[K, G] {
	out := make([]*AggregatedEntry[K, G], 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(x, y *AggregatedEntry[K, G]) int {
		return compareTimeslots(x.Timeslot, y.Timeslot)
	})
	return out
}

// Processed — сколько слотов прошло через агрегатор.
func (a *Aggregator[K, G]) Processed() int {
	return a.processed
}
