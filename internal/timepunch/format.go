package timepunch

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout формат дат в запросах и сессиях
const DateLayout = "2006-01-02"

// EmptyTime выводится вместо отсутствующего времени
const EmptyTime = "--:--"

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseTime разбирает ISO-8601 метку; без смещения считается UTC
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatHHMM форматирует метку как HH:MM в ее собственном смещении
func FormatHHMM(iso string) string {
	return FormatHHMMIn(iso, nil)
}

// FormatHHMMIn форматирует метку как HH:MM в зоне loc (nil - как есть)
func FormatHHMMIn(iso string, loc *time.Location) string {
	t, ok := ParseTime(iso)
	if !ok {
		return EmptyTime
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("15:04")
}

// FormatHMS форматирует секунды как HH:MM:SS; отрицательные дают 00:00:00
func FormatHMS(totalSeconds int64) string {
	s := max(totalSeconds, 0)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// FormatHoursMinutes форматирует секунды как "Xh Ym"
func FormatHoursMinutes(totalSeconds int64) string {
	return fmt.Sprintf("%dh %dm", totalSeconds/3600, (totalSeconds%3600)/60)
}

// MonthStart первое число месяца anchor в его зоне
func MonthStart(anchor time.Time) time.Time {
	return time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
}

// MonthRange возвращает первый и последний день месяца anchor
func MonthRange(anchor time.Time) (from, to string) {
	first := MonthStart(anchor)
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout)
}

// AddMonths сдвигает начало месяца на n месяцев
func AddMonths(anchor time.Time, n int) time.Time {
	return MonthStart(anchor).AddDate(0, n, 0)
}

var (
	weekdaysES = [...]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"}
	monthsES   = [...]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}
)

// DayLabel сокращенный день недели и число: "lun 06"
func DayLabel(d time.Time) string {
	return fmt.Sprintf("%s %02d", weekdaysES[d.Weekday()], d.Day())
}

// MonthLabel название месяца с заглавной буквы: "Mayo de 2024"
func MonthLabel(d time.Time) string {
	name := monthsES[d.Month()-1]
	return strings.ToUpper(name[:1]) + name[1:] + " de " + fmt.Sprint(d.Year())
}
