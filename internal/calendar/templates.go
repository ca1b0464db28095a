package calendar

import (
	"errors"
	"time"
)

var (
	ErrScheduleNotInitialized = errors.New("weekly schedule has no weekday entries")
	ErrInvalidSlotDuration    = errors.New("slot duration must be positive")
)

// TimeslotTemplate — шаблон слота фиксированной длины, привязанный к дню недели.
type TimeslotTemplate struct {
	Weekday  time.Weekday
	Start    TimeOfDay
	End      TimeOfDay
	Capacity int
}

// GenerateTemplates нарезает активные дни расписания на слоты длиной SlotDurationMinutes.
//
// Курсор идёт от открытия к закрытию. Если кандидат [cursor, cursor+d) пересекается
// с перерывом (полуоткрытые интервалы), слот не создаётся, а курсор прыгает на конец
// первого найденного перерыва; соседние перерывы проверяются уже на следующем шаге.
func GenerateTemplates(s *WeeklySchedule) ([]TimeslotTemplate, error) {
	if !s.Initialized() {
		return nil, ErrScheduleNotInitialized
	}
	if s.SlotDurationMinutes <= 0 {
		return nil, ErrInvalidSlotDuration
	}

	var out []TimeslotTemplate
	for _, day := range s.Days() {
		out = append(out, dayTemplates(day, s.SlotDurationMinutes)...)
	}
	return out, nil
}

func dayTemplates(day *WeekDaySchedule, duration int) []TimeslotTemplate {
	if !day.IsActive || day.OpenTime == nil || day.CloseTime == nil {
		return nil
	}

	closeAt := day.CloseTime.Minutes()
	var out []TimeslotTemplate

	// Считаем в минутах от полуночи, чтобы не было переноса через сутки.
	for cursor := day.OpenTime.Minutes(); cursor+duration <= closeAt; {
		candidateEnd := cursor + duration

		if b, ok := firstOverlappingBreak(day.Breaks, cursor, candidateEnd); ok {
			cursor = b.End.Minutes()
			continue
		}

		out = append(out, TimeslotTemplate{
			Weekday:  day.Weekday,
			Start:    timeOfDayFromMinutes(cursor),
			End:      timeOfDayFromMinutes(candidateEnd),
			Capacity: day.Capacity,
		})
		cursor = candidateEnd
	}

	return out
}

// Перекрытие [start, end) и [b.Start, b.End): b.End > start && end > b.Start.
// Из условия b.End > start следует, что курсор всегда движется вперёд.
func firstOverlappingBreak(breaks []WeekDayBreak, start, end int) (WeekDayBreak, bool) {
	for _, b := range breaks {
		if b.End.Minutes() > start && end > b.Start.Minutes() {
			return b, true
		}
	}
	return WeekDayBreak{}, false
}
