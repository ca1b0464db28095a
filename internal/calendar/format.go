package calendar

import (
	"fmt"
	"time"
)

var weekdayNames = map[string]map[time.Weekday]string{
	"ru": {
		time.Monday:    "Понедельник",
		time.Tuesday:   "Вторник",
		time.Wednesday: "Среда",
		time.Thursday:  "Четверг",
		time.Friday:    "Пятница",
		time.Saturday:  "Суббота",
		time.Sunday:    "Воскресенье",
	},
	"en": {
		time.Monday:    "Monday",
		time.Tuesday:   "Tuesday",
		time.Wednesday: "Wednesday",
		time.Thursday:  "Thursday",
		time.Friday:    "Friday",
		time.Saturday:  "Saturday",
		time.Sunday:    "Sunday",
	},
}

// FormatTimeslot форматирует слот в строку вида "Среда, 01.01.2025, 10:00–11:00".
// Если loc != nil, время переводится в указанный часовой пояс.
// Неизвестная локаль даёт английские названия дней.
func FormatTimeslot(ts Timeslot, loc *time.Location, locale string) string {
	start := ts.Start
	end := ts.End

	if loc != nil {
		start = start.In(loc)
		end = end.In(loc)
	}

	names, ok := weekdayNames[locale]
	if !ok {
		names = weekdayNames["en"]
	}

	return fmt.Sprintf("%s, %s, %s–%s",
		names[start.Weekday()],
		start.Format("02.01.2006"),
		start.Format("15:04"),
		end.Format("15:04"),
	)
}
