package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/alysesue/bookings-api-sub000/internal/calendar"
)

// schedules — недельное расписание провайдера (опционально — под конкретную услугу).
type Schedule struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	ProviderID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ServiceID  *uuid.UUID `gorm:"type:uuid;index"`

	SlotDurationMinutes int `gorm:"not null"`

	// Чистые даты без времени — datatypes.Date. nil означает "без ограничения".
	StartDate *datatypes.Date `gorm:"type:date"`
	EndDate   *datatypes.Date `gorm:"type:date"`

	TimeZone string `gorm:"type:varchar(64);not null;default:'UTC'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Days      []WeekdaySchedule  `gorm:"foreignKey:ScheduleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Templates []TimeslotTemplate `gorm:"foreignKey:ScheduleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (s *Schedule) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// BreakSpan — перерыв внутри дня, хранится JSON-массивом в weekday_schedules.breaks.
type BreakSpan struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// weekday_schedules
type WeekdaySchedule struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ScheduleID uuid.UUID `gorm:"type:uuid;not null;index"`

	Weekday   int     `gorm:"not null"`
	IsActive  bool    `gorm:"not null"`
	OpenTime  *string `gorm:"type:varchar(5)"`
	CloseTime *string `gorm:"type:varchar(5)"`
	Capacity  int     `gorm:"not null"`

	Breaks datatypes.JSONSlice[BreakSpan]
}

func (d *WeekdaySchedule) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

// timeslot_templates — сгенерированная коллекция шаблонов слотов.
// ProviderID продублирован, чтобы выбирать шаблоны сразу по списку провайдеров.
type TimeslotTemplate struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ScheduleID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index"`

	Weekday   int    `gorm:"not null"`
	StartTime string `gorm:"type:varchar(5);not null"`
	EndTime   string `gorm:"type:varchar(5);not null"`
	Capacity  int    `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (t *TimeslotTemplate) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// NewWeekdaySchedules переводит дни доменного расписания в строки таблицы.
func NewWeekdaySchedules(s *calendar.WeeklySchedule) []WeekdaySchedule {
	days := s.Days()
	out := make([]WeekdaySchedule, 0, len(days))
	for _, d := range days {
		row := WeekdaySchedule{
			Weekday:  int(d.Weekday),
			IsActive: d.IsActive,
			Capacity: d.Capacity,
			Breaks:   make(datatypes.JSONSlice[BreakSpan], 0, len(d.Breaks)),
		}
		if d.OpenTime != nil {
			v := d.OpenTime.String()
			row.OpenTime = &v
		}
		if d.CloseTime != nil {
			v := d.CloseTime.String()
			row.CloseTime = &v
		}
		for _, b := range d.Breaks {
			row.Breaks = append(row.Breaks, BreakSpan{Start: b.Start.String(), End: b.End.String()})
		}
		out = append(out, row)
	}
	return out
}

// NewTimeslotTemplates переводит сгенерированные шаблоны в строки таблицы.
func NewTimeslotTemplates(providerID uuid.UUID, tpls []calendar.TimeslotTemplate) []TimeslotTemplate {
	out := make([]TimeslotTemplate, 0, len(tpls))
	for _, t := range tpls {
		out = append(out, TimeslotTemplate{
			ProviderID: providerID,
			Weekday:    int(t.Weekday),
			StartTime:  t.Start.String(),
			EndTime:    t.End.String(),
			Capacity:   t.Capacity,
		})
	}
	return out
}

// ToWeekly восстанавливает доменное расписание. Days должны быть подгружены.
func (s *Schedule) ToWeekly() (*calendar.WeeklySchedule, error) {
	ws := calendar.NewWeeklySchedule(s.SlotDurationMinutes)
	for _, row := range s.Days {
		if row.Weekday < 0 || row.Weekday > 6 {
			return nil, fmt.Errorf("schedule %s: weekday %d out of range", s.ID, row.Weekday)
		}
		d := ws.Day(time.Weekday(row.Weekday))
		d.IsActive = row.IsActive
		d.Capacity = row.Capacity

		var err error
		if d.OpenTime, err = parseOptional(row.OpenTime); err != nil {
			return nil, fmt.Errorf("schedule %s: open time: %w", s.ID, err)
		}
		if d.CloseTime, err = parseOptional(row.CloseTime); err != nil {
			return nil, fmt.Errorf("schedule %s: close time: %w", s.ID, err)
		}
		for _, b := range row.Breaks {
			start, err := calendar.ParseTimeOfDay(b.Start)
			if err != nil {
				return nil, fmt.Errorf("schedule %s: break start: %w", s.ID, err)
			}
			end, err := calendar.ParseTimeOfDay(b.End)
			if err != nil {
				return nil, fmt.Errorf("schedule %s: break end: %w", s.ID, err)
			}
			d.AddBreak(start, end)
		}
	}
	return ws, nil
}

// ToCalendar переводит строку таблицы обратно в доменный шаблон.
func (t TimeslotTemplate) ToCalendar() (calendar.TimeslotTemplate, error) {
	start, err := calendar.ParseTimeOfDay(t.StartTime)
	if err != nil {
		return calendar.TimeslotTemplate{}, fmt.Errorf("template %s: %w", t.ID, err)
	}
	end, err := calendar.ParseTimeOfDay(t.EndTime)
	if err != nil {
		return calendar.TimeslotTemplate{}, fmt.Errorf("template %s: %w", t.ID, err)
	}
	return calendar.TimeslotTemplate{
		Weekday:  time.Weekday(t.Weekday),
		Start:    start,
		End:      end,
		Capacity: t.Capacity,
	}, nil
}

// ValidityRange — период действия расписания в его таймзоне: [StartDate 00:00, EndDate+1 00:00).
// Нулевые границы означают отсутствие ограничения с этой стороны.
func (s *Schedule) ValidityRange(loc *time.Location) (from, to time.Time) {
	if s.StartDate != nil {
		y, m, d := time.Time(*s.StartDate).Date()
		from = time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	if s.EndDate != nil {
		y, m, d := time.Time(*s.EndDate).Date()
		to = time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	}
	return from, to
}

func parseOptional(v *string) (*calendar.TimeOfDay, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	tod, err := calendar.ParseTimeOfDay(*v)
	if err != nil {
		return nil, err
	}
	return &tod, nil
}
