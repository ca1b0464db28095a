package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:mm")
	ErrTimeOutOfRange    = errors.New("time of day out of range")
)

// TimeOfDay — время суток (часы и минуты) без привязки к дате.
// Нулевое значение соответствует 00:00.
type TimeOfDay struct {
	hour   int
	minute int
}

// NewTimeOfDay создаёт значение из пары час/минута.
// Значения вне диапазона 0..23 / 0..59 не обрезаются, а возвращают ошибку.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %d:%d", ErrTimeOutOfRange, hour, minute)
	}
	return TimeOfDay{hour: hour, minute: minute}, nil
}

// ParseTimeOfDay разбирает строку "H:mm" или "HH:mm".
// Секунды ("HH:mm:ss") допускаются и игнорируются; пробелы вокруг значения — ошибка.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	if len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	if len(parts) == 3 && len(parts[2]) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		if !isDigits(p) {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		nums[i] = n
	}
	if len(nums) == 3 && nums[2] > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrTimeOutOfRange, s)
	}

	return NewTimeOfDay(nums[0], nums[1])
}

// MustTimeOfDay — вариант ParseTimeOfDay для фикстур и констант.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeOfDayOf возвращает время суток момента t в его собственной таймзоне.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{hour: t.Hour(), minute: t.Minute()}
}

func timeOfDayFromMinutes(m int) TimeOfDay {
	m %= minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return TimeOfDay{hour: m / 60, minute: m % 60}
}

const minutesPerDay = 24 * 60

func (t TimeOfDay) Hour() int   { return t.hour }
func (t TimeOfDay) Minute() int { return t.minute }

// Minutes — количество минут с полуночи.
func (t TimeOfDay) Minutes() int {
	return t.hour*60 + t.minute
}

// Compare возвращает -1, 0 или 1.
func (t TimeOfDay) Compare(o TimeOfDay) int {
	switch a, b := t.Minutes(), o.Minutes(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (t TimeOfDay) Before(o TimeOfDay) bool { return t.Compare(o) < 0 }
func (t TimeOfDay) After(o TimeOfDay) bool  { return t.Compare(o) > 0 }
func (t TimeOfDay) Equal(o TimeOfDay) bool  { return t == o }

// Sub возвращает разницу t - o в минутах.
func (t TimeOfDay) Sub(o TimeOfDay) int {
	return t.Minutes() - o.Minutes()
}

// AddMinutes прибавляет n минут по модулю суток.
// Переход через полночь не имеет смысла для расчётов внутри одного дня.
func (t TimeOfDay) AddMinutes(n int) TimeOfDay {
	return timeOfDayFromMinutes(t.Minutes() + n)
}

// On подставляет время суток в календарный день date (та же дата и таймзона).
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.hour, t.minute, 0, 0, date.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(data []byte) error {
	parsed, err := ParseTimeOfDay(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
