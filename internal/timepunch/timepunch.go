// Package timepunch reconstructs the working day from raw punch events:
// the reverse-chronological timeline, the live worked-seconds counter and
// the per-session table rows.
//
// Все функции чистые: сеть и часы передаются снаружи.
package timepunch

import (
	"sort"
	"time"

	"github.com/iudanet/staffdesk/pkg/api"
)

// LunchThreshold перерыв не короче этого считается обедом
const LunchThreshold = 45 * time.Minute

// Kind тип записи таймлайна
type Kind string

const (
	KindEntrada  Kind = "entrada"
	KindAlmuerzo Kind = "almuerzo"
	KindPausa    Kind = "pausa"
	KindSalida   Kind = "salida"
)

// Подписи записей таймлайна
const (
	LabelEntrada     = "Entrada"
	LabelAlmuerzo    = "Almuerzo"
	LabelPausa       = "Pausa"
	LabelPausaActiva = "Pausa (en curso)"
	LabelSalida      = "Salida"
)

// TimelineEntry одна строка таймлайна
type TimelineEntry struct {
	Kind    Kind
	Label   string
	Time    string // "HH:MM" или "HH:MM - HH:MM"
	Minutes int    // длительность перерыва; 0 для entrada/salida и открытой паузы
}

// punchTime возвращает момент отметки: punched_at_local, если он есть, иначе UTC
func punchTime(p api.Punch) (time.Time, bool) {
	if p.PunchedAtLocal != "" {
		return ParseTime(p.PunchedAtLocal)
	}
	return ParseTime(p.PunchedAtUTC)
}

func punchLabelTime(p api.Punch) string {
	if p.PunchedAtLocal != "" {
		return p.PunchedAtLocal
	}
	return p.PunchedAtUTC
}

// SortAscending сортирует отметки по времени; равные сохраняют порядок.
// Построение таймлайна и счетчика ожидает уже отсортированный список.
func SortAscending(punches []api.Punch) {
	sort.SliceStable(punches, func(i, j int) bool {
		ti, _ := punchTime(punches[i])
		tj, _ := punchTime(punches[j])
		return ti.Before(tj)
	})
}

// BuildTimeline строит таймлайн за один проход и возвращает его
// от последнего события к первому.
func BuildTimeline(punches []api.Punch) []TimelineEntry {
	timeline := make([]TimelineEntry, 0, len(punches)+1)
	breakStart := "" // открытый перерыв, "" - нет

	for _, p := range punches {
		at := punchLabelTime(p)

		switch p.PunchType {
		case api.PunchIn:
			timeline = append(timeline, TimelineEntry{Kind: KindEntrada, Label: LabelEntrada, Time: FormatHHMM(at)})
			breakStart = ""

		case api.PunchBreakStart:
			// второй BREAK_START подряд игнорируется
			if breakStart == "" {
				breakStart = at
			}

		case api.PunchBreakEnd:
			if breakStart == "" {
				continue
			}
			minutes := breakMinutes(breakStart, at)
			entry := TimelineEntry{Kind: KindPausa, Label: LabelPausa, Minutes: minutes}
			if time.Duration(minutes)*time.Minute >= LunchThreshold {
				entry.Kind = KindAlmuerzo
				entry.Label = LabelAlmuerzo
			}
			entry.Time = FormatHHMM(breakStart) + " - " + FormatHHMM(at)
			timeline = append(timeline, entry)
			breakStart = ""

		case api.PunchOut:
			timeline = append(timeline, TimelineEntry{Kind: KindSalida, Label: LabelSalida, Time: FormatHHMM(at)})
			breakStart = ""
		}
	}

	if breakStart != "" {
		timeline = append(timeline, TimelineEntry{
			Kind:  KindPausa,
			Label: LabelPausaActiva,
			Time:  FormatHHMM(breakStart) + " - —",
		})
	}

	// DESC
	for i, j := 0, len(timeline)-1; i < j; i, j = i+1, j-1 {
		timeline[i], timeline[j] = timeline[j], timeline[i]
	}
	return timeline
}

// breakMinutes длительность в минутах с округлением до ближайшей, не меньше 0
func breakMinutes(from, to string) int {
	start, ok1 := ParseTime(from)
	end, ok2 := ParseTime(to)
	if !ok1 || !ok2 {
		return 0
	}
	d := end.Sub(start).Round(time.Minute)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// WorkSecondsToday считает отработанные секунды по отсортированным
// отметкам. Открытая смена досчитывается до now. Отметки с
// нечитаемым временем пропускаются.
func WorkSecondsToday(punches []api.Punch, now time.Time) int64 {
	var (
		total      time.Duration
		currentIn  *time.Time
		breakStart *time.Time
		breakAccum time.Duration
	)

	for _, p := range punches {
		t, ok := punchTime(p)
		if !ok {
			continue
		}

		switch p.PunchType {
		case api.PunchIn:
			// Два IN подряд: смена начинается заново с последнего
			currentIn = &t
			breakStart = nil
			breakAccum = 0

		case api.PunchBreakStart:
			if currentIn != nil && breakStart == nil {
				breakStart = &t
			}

		case api.PunchBreakEnd:
			if currentIn != nil && breakStart != nil {
				if t.After(*breakStart) {
					breakAccum += t.Sub(*breakStart)
				}
				breakStart = nil
			}

		case api.PunchOut:
			if currentIn == nil {
				continue
			}
			if breakStart != nil && t.After(*breakStart) {
				breakAccum += t.Sub(*breakStart)
			}
			breakStart = nil
			total += nonNegative(t.Sub(*currentIn) - breakAccum)
			currentIn = nil
			breakAccum = 0
		}
	}

	if currentIn != nil {
		var live time.Duration
		if breakStart != nil && now.After(*breakStart) {
			live = now.Sub(*breakStart)
		}
		total += nonNegative(now.Sub(*currentIn) - (breakAccum + live))
	}

	return int64(nonNegative(total) / time.Second)
}

// IsOpen сообщает, осталась ли смена открытой после последней отметки
func IsOpen(punches []api.Punch) bool {
	open := false
	for _, p := range punches {
		if _, ok := punchTime(p); !ok {
			continue
		}
		switch p.PunchType {
		case api.PunchIn:
			open = true
		case api.PunchOut:
			open = false
		}
	}
	return open
}

// OnBreak сообщает, открыт ли сейчас перерыв внутри открытой смены
func OnBreak(punches []api.Punch) bool {
	open, paused := false, false
	for _, p := range punches {
		if _, ok := punchTime(p); !ok {
			continue
		}
		switch p.PunchType {
		case api.PunchIn:
			open, paused = true, false
		case api.PunchBreakStart:
			if open {
				paused = true
			}
		case api.PunchBreakEnd:
			paused = false
		case api.PunchOut:
			open, paused = false, false
		}
	}
	return open && paused
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
