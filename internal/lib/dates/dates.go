// Package dates содержит функции округления времени, используемые
// в правилах проверки дат встреч.
package dates

import (
	"fmt"
	"time"
)

// DayLayout формат даты для фильтра списка встреч.
const DayLayout = "2006-01-02"

// StartOfHour отбрасывает минуты, секунды и наносекунды.
func StartOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// StartOfDay возвращает полночь того же дня в часовом поясе t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay возвращает последнюю наносекунду того же дня в часовом поясе t.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParseDay разбирает дату фильтра. Принимает YYYY-MM-DD (в часовом поясе loc) и RFC3339.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	const op = "dates.ParseDay"
	if t, err := time.ParseInLocation(DayLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date %q", op, value)
	}
	return t.In(loc), nil
}
