package calendar

import (
	"fmt"
	"strings"
	"time"
)

// ValidationCode — числовой код нарушения, отдаётся клиенту как есть.
type ValidationCode int

const (
	CodeOpenCloseTimesRequired          ValidationCode = 10101
	CodeCloseMustBeAfterOpen            ValidationCode = 10102
	CodeIntervalShorterThanSlotDuration ValidationCode = 10103
	CodeBreakEndMustBeAfterStart        ValidationCode = 10104
	CodeInvalidSlotDuration             ValidationCode = 10105
	CodeInvalidTimeFormat               ValidationCode = 10106
	CodeInvalidCapacity                 ValidationCode = 10107
	CodeInvalidWeekday                  ValidationCode = 10108
)

var codeNames = map[ValidationCode]string{
	CodeOpenCloseTimesRequired:          "OpenCloseTimesRequired",
	CodeCloseMustBeAfterOpen:            "CloseMustBeAfterOpen",
	CodeIntervalShorterThanSlotDuration: "IntervalShorterThanSlotDuration",
	CodeBreakEndMustBeAfterStart:        "BreakEndMustBeAfterStart",
	CodeInvalidSlotDuration:             "InvalidSlotDuration",
	CodeInvalidTimeFormat:               "InvalidTimeFormat",
	CodeInvalidCapacity:                 "InvalidCapacity",
	CodeInvalidWeekday:                  "InvalidWeekday",
}

func (c ValidationCode) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("ValidationCode(%d)", int(c))
}

// BusinessValidation — одно нарушение бизнес-правил расписания.
// Weekday == nil для нарушений уровня всего расписания.
type BusinessValidation struct {
	Code    ValidationCode
	Weekday *time.Weekday
	Message string
}

func newViolation(code ValidationCode, wd *time.Weekday, format string, args ...any) BusinessValidation {
	v := BusinessValidation{Code: code, Message: fmt.Sprintf(format, args...)}
	if wd != nil {
		w := *wd
		v.Weekday = &w
	}
	return v
}

func (v BusinessValidation) String() string {
	if v.Weekday != nil {
		return fmt.Sprintf("%d %s: %s", int(v.Code), v.Weekday.String(), v.Message)
	}
	return fmt.Sprintf("%d: %s", int(v.Code), v.Message)
}

// ValidationError оборачивает полный список нарушений в error.
type ValidationError struct {
	Violations []BusinessValidation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return "schedule validation failed: " + strings.Join(parts, "; ")
}

// ValidateSchedule собирает все нарушения по всем дням недели, не останавливаясь на первом.
// Расписание не изменяется.
func ValidateSchedule(s *WeeklySchedule) []BusinessValidation {
	var out []BusinessValidation

	if s.SlotDurationMinutes <= 0 {
		out = append(out, newViolation(CodeInvalidSlotDuration, nil,
			"slot duration must be positive, got %d", s.SlotDurationMinutes))
	}

	for _, day := range s.Days() {
		if !day.IsActive {
			continue
		}
		wd := day.Weekday

		if day.Capacity < 1 {
			out = append(out, newViolation(CodeInvalidCapacity, &wd,
				"capacity must be at least 1, got %d", day.Capacity))
		}

		if day.OpenTime == nil || day.CloseTime == nil {
			out = append(out, newViolation(CodeOpenCloseTimesRequired, &wd,
				"open and close times are required for an active day"))
		} else {
			open, closeAt := *day.OpenTime, *day.CloseTime
			switch {
			case !closeAt.After(open):
				out = append(out, newViolation(CodeCloseMustBeAfterOpen, &wd,
					"close time %s must be after open time %s", closeAt, open))
			case s.SlotDurationMinutes > 0 && closeAt.Sub(open) < s.SlotDurationMinutes:
				out = append(out, newViolation(CodeIntervalShorterThanSlotDuration, &wd,
					"interval %s-%s is shorter than slot duration %d min", open, closeAt, s.SlotDurationMinutes))
			}
		}

		for _, b := range day.Breaks {
			if !b.End.After(b.Start) {
				out = append(out, newViolation(CodeBreakEndMustBeAfterStart, &wd,
					"break end %s must be after start %s", b.End, b.Start))
			}
		}
	}

	return out
}
