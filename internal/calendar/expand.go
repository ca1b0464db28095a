package calendar

import (
	"iter"
	"slices"
	"time"
)

// Timeslot — конкретный интервал во времени.
type Timeslot struct {
	Start time.Time
	End   time.Time
}

func (ts Timeslot) Key() TimeslotKey {
	return TimeslotKey{Start: ts.Start.UnixNano(), End: ts.End.UnixNano()}
}

func (ts Timeslot) Range() TimeRange {
	return TimeRange{Start: ts.Start, End: ts.End}
}

type TimeslotWithCapacity struct {
	Timeslot
	Capacity int
}

func compareTimeslots(a, b Timeslot) int {
	if c := a.Start.Compare(b.Start); c != 0 {
		return c
	}
	return a.End.Compare(b.End)
}

// ExpandTemplates разворачивает недельные шаблоны в датированные слоты внутри r.
//
// Все дни, кроме первого и последнего, выдаются целиком. В первый день отбрасываются
// шаблоны, начинающиеся раньше времени r.Start, в последний — заканчивающиеся позже r.End.
// Границы сравниваются с точностью до минуты: секунды в r.Start и r.End игнорируются.
// Последовательность ленивая; каждый запуск считает всё заново.
func ExpandTemplates(templates []TimeslotTemplate, r TimeRange) iter.Seq[TimeslotWithCapacity] {
	return func(yield func(TimeslotWithCapacity) bool) {
		if r.End.Before(r.Start) {
			return
		}

		loc := r.Start.Location()
		end := r.End.In(loc)
		firstDate := dateOnly(r.Start)
		daysCount := 1 + daysBetween(firstDate, end)

		byWeekday := groupByWeekday(templates)
		startCut := TimeOfDayOf(r.Start)
		endCut := TimeOfDayOf(end)

		for day := 0; day < daysCount; day++ {
			date := firstDate.AddDate(0, 0, day)
			for _, tpl := range byWeekday[date.Weekday()] {
				if day == 0 && tpl.Start.Before(startCut) {
					continue
				}
				if day == daysCount-1 && tpl.End.After(endCut) {
					continue
				}

				slot := TimeslotWithCapacity{
					Timeslot: Timeslot{Start: tpl.Start.On(date), End: tpl.End.On(date)},
					Capacity: tpl.Capacity,
				}
				if !yield(slot) {
					return
				}
			}
		}
	}
}

func groupByWeekday(templates []TimeslotTemplate) map[time.Weekday][]TimeslotTemplate {
	out := make(map[time.Weekday][]TimeslotTemplate, 7)
	for _, t := range templates {
		out[t.Weekday] = append(out[t.Weekday], t)
	}
	for wd := range out {
		slices.SortStableFunc(out[wd], func(a, b TimeslotTemplate) int {
			if c := a.Start.Compare(b.Start); c != 0 {
				return c
			}
			return a.End.Compare(b.End)
		})
	}
	return out
}

// ExpandOneOff отдаёт разовые слоты, полностью лежащие внутри r, по порядку (start, end).
func ExpandOneOff(slots []TimeslotWithCapacity, r TimeRange) iter.Seq[TimeslotWithCapacity] {
	return func(yield func(TimeslotWithCapacity) bool) {
		if r.End.Before(r.Start) {
			return
		}

		sorted := slices.Clone(slots)
		slices.SortStableFunc(sorted, func(a, b TimeslotWithCapacity) int {
			return compareTimeslots(a.Timeslot, b.Timeslot)
		})

		for _, s := range sorted {
			if s.Start.Before(r.Start) || s.End.After(r.End) {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

// Concat склеивает несколько последовательностей в одну.
func Concat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for v := range seq {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// Collect материализует последовательность в срез.
func Collect[T any](seq iter.Seq[T]) []T {
	return slices.Collect(seq)
}

// SortTimeslots сортирует по (start, end) на месте.
func SortTimeslots[T any](items []T, slot func(T) Timeslot) {
	slices.SortStableFunc(items, func(a, b T) int {
		return compareTimeslots(slot(a), slot(b))
	})
}
