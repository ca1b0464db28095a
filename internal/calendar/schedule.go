package calendar

import (
	"slices"
	"time"
)

// WeekDayBreak — перерыв внутри рабочего окна дня недели.
// Корректность (End > Start) проверяется в ValidateSchedule, а не здесь.
type WeekDayBreak struct {
	Weekday time.Weekday
	Start   TimeOfDay
	End     TimeOfDay
}

// WeekDaySchedule — расписание одного дня недели.
type WeekDaySchedule struct {
	Weekday   time.Weekday
	IsActive  bool
	OpenTime  *TimeOfDay
	CloseTime *TimeOfDay
	Capacity  int
	Breaks    []WeekDayBreak
}

// SetHours задаёт время открытия и закрытия.
func (d *WeekDaySchedule) SetHours(open, close TimeOfDay) {
	d.OpenTime = &open
	d.CloseTime = &close
}

// AddBreak добавляет перерыв, сохраняя порядок по началу (затем по концу).
func (d *WeekDaySchedule) AddBreak(start, end TimeOfDay) {
	d.Breaks = append(d.Breaks, WeekDayBreak{Weekday: d.Weekday, Start: start, End: end})
	slices.SortStableFunc(d.Breaks, func(a, b WeekDayBreak) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return a.End.Compare(b.End)
	})
}

// WeeklySchedule — недельное расписание: длительность слота и по одной записи на день недели.
// Записи дней создаются лениво в неактивном состоянии.
type WeeklySchedule struct {
	SlotDurationMinutes int

	days [7]*WeekDaySchedule
}

func NewWeeklySchedule(slotDurationMinutes int) *WeeklySchedule {
	return &WeeklySchedule{SlotDurationMinutes: slotDurationMinutes}
}

// Day возвращает запись дня недели, создавая её при первом обращении.
func (s *WeeklySchedule) Day(wd time.Weekday) *WeekDaySchedule {
	if s.days[wd] == nil {
		s.days[wd] = &WeekDaySchedule{Weekday: wd}
	}
	return s.days[wd]
}

// Days возвращает уже созданные записи в порядке Sunday..Saturday.
func (s *WeeklySchedule) Days() []*WeekDaySchedule {
	out := make([]*WeekDaySchedule, 0, len(s.days))
	for _, d := range s.days {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

// Initialized сообщает, была ли создана хотя бы одна запись дня.
func (s *WeeklySchedule) Initialized() bool {
	for _, d := range s.days {
		if d != nil {
			return true
		}
	}
	return false
}

// InitAll создаёт записи для всех семи дней.
func (s *WeeklySchedule) InitAll() {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		s.Day(wd)
	}
}

// ===== Маппинг внешнего запроса =====

// ScheduleRequest — расписание в том виде, в котором его присылает клиент (строки "HH:mm").
type ScheduleRequest struct {
	SlotDurationMinutes int          `json:"slot_duration_minutes"`
	Days                []DayRequest `json:"days"`
}

type DayRequest struct {
	Weekday   time.Weekday   `json:"weekday"`
	IsActive  bool           `json:"is_active"`
	OpenTime  string         `json:"open_time,omitempty"`
	CloseTime string         `json:"close_time,omitempty"`
	Capacity  int            `json:"capacity"`
	Breaks    []BreakRequest `json:"breaks,omitempty"`
}

type BreakRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ScheduleFromRequest переносит запрос в WeeklySchedule.
// Ошибки разбора времени не прерывают маппинг: они собираются как InvalidTimeFormat,
// чтобы вызывающий мог вернуть все проблемы сразу.
// Повтор дня недели — InvalidWeekday; в расписание попадает первое вхождение.
func ScheduleFromRequest(req ScheduleRequest) (*WeeklySchedule, []BusinessValidation) {
	s := NewWeeklySchedule(req.SlotDurationMinutes)
	s.InitAll()

	var violations []BusinessValidation
	parse := func(wd time.Weekday, field, raw string) (TimeOfDay, bool) {
		t, err := ParseTimeOfDay(raw)
		if err != nil {
			violations = append(violations, newViolation(CodeInvalidTimeFormat, &wd,
				"%s: %s", field, err.Error()))
			return TimeOfDay{}, false
		}
		return t, true
	}

	var seen [7]bool
	for _, dr := range req.Days {
		if dr.Weekday < time.Sunday || dr.Weekday > time.Saturday {
			violations = append(violations, newViolation(CodeInvalidWeekday, nil,
				"weekday %d is out of range", int(dr.Weekday)))
			continue
		}
		if seen[dr.Weekday] {
			wd := dr.Weekday
			violations = append(violations, newViolation(CodeInvalidWeekday, &wd,
				"weekday %s is listed more than once", wd))
			continue
		}
		seen[dr.Weekday] = true

		day := s.Day(dr.Weekday)
		day.IsActive = dr.IsActive
		day.Capacity = dr.Capacity

		if dr.OpenTime != "" {
			if t, ok := parse(dr.Weekday, "open_time", dr.OpenTime); ok {
				day.OpenTime = &t
			}
		}
		if dr.CloseTime != "" {
			if t, ok := parse(dr.Weekday, "close_time", dr.CloseTime); ok {
				day.CloseTime = &t
			}
		}

		for _, br := range dr.Breaks {
			start, okStart := parse(dr.Weekday, "break start_time", br.StartTime)
			end, okEnd := parse(dr.Weekday, "break end_time", br.EndTime)
			if okStart && okEnd {
				day.AddBreak(start, end)
			}
		}
	}

	return s, violations
}

// ToRequest — обратное преобразование, используется при отдаче сохранённого расписания.
func (s *WeeklySchedule) ToRequest() ScheduleRequest {
	req := ScheduleRequest{SlotDurationMinutes: s.SlotDurationMinutes}
	for _, d := range s.Days() {
		dr := DayRequest{
			Weekday:  d.Weekday,
			IsActive: d.IsActive,
			Capacity: d.Capacity,
		}
		if d.OpenTime != nil {
			dr.OpenTime = d.OpenTime.String()
		}
		if d.CloseTime != nil {
			dr.CloseTime = d.CloseTime.String()
		}
		for _, b := range d.Breaks {
			dr.Breaks = append(dr.Breaks, BreakRequest{StartTime: b.Start.String(), EndTime: b.End.String()})
		}
		req.Days = append(req.Days, dr)
	}
	return req
}
