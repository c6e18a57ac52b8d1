package timepunch

import (
	"sort"
	"time"

	"github.com/iudanet/staffdesk/pkg/api"
)

// Значения колонок, которые бэкенд пока не считает
const (
	ExtraPlaceholder = "--"
	StatusCompleted  = "completado"
)

// Row строка таблицы сессий
type Row struct {
	Key       string
	DateLabel string // "lun 06"
	In        string // HH:MM
	Out       string // HH:MM или --:--
	Breaks    string // Xh Ym
	Hours     string // Xh Ym
	Extra     string
	Status    string
	IsToday   bool
}

// BuildRows сортирует сессии по началу (новые первыми) и форматирует их.
// Время показывается в зоне today; строка с датой today помечается.
func BuildRows(sessions []api.WorkSession, today time.Time) []Row {
	sorted := make([]api.WorkSession, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, _ := ParseTime(sorted[i].In)
		tj, _ := ParseTime(sorted[j].In)
		return ti.After(tj)
	})

	loc := today.Location()
	todayISO := today.Format(DateLayout)

	rows := make([]Row, 0, len(sorted))
	for _, s := range sorted {
		out := ""
		if s.Out != nil {
			out = *s.Out
		}
		rows = append(rows, Row{
			Key:       s.Date + "-" + s.In + "-" + out,
			DateLabel: dayLabelISO(s.Date),
			In:        FormatHHMMIn(s.In, loc),
			Out:       FormatHHMMIn(out, loc),
			Breaks:    FormatHoursMinutes(s.BreakSeconds),
			Hours:     FormatHoursMinutes(s.NetSeconds),
			Extra:     ExtraPlaceholder,
			Status:    StatusCompleted,
			IsToday:   s.Date == todayISO,
		})
	}
	return rows
}

func dayLabelISO(date string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return DayLabel(d)
}
