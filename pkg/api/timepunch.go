package api

// PunchType тип отметки учета рабочего времени
type PunchType string

const (
	PunchIn         PunchType = "IN"
	PunchBreakStart PunchType = "BREAK_START"
	PunchBreakEnd   PunchType = "BREAK_END"
	PunchOut        PunchType = "OUT"
)

// Punch представляет одну сырую отметку из /time-punch/list
type Punch struct {
	Note           *string   `json:"note,omitempty"`
	PunchType      PunchType `json:"punch_type"`
	PunchedAtUTC   string    `json:"punched_at_utc,omitempty"`
	PunchedAtLocal string    `json:"punched_at_local"` // ISO-8601 со смещением зоны
	ID             int       `json:"id,omitempty"`
	EmployeeID     int       `json:"employee_id,omitempty"`
}

// PunchStatus представляет ответ /time-punch/status
type PunchStatus struct {
	LastType *PunchType `json:"last_type"`
	LastAt   *string    `json:"last_at"`
	Open     bool       `json:"open"`
	Paused   bool       `json:"paused"`
}

// PunchNote тело запросов start / pause-toggle / end
type PunchNote struct {
	Note string `json:"note,omitempty"`
}

// PunchActionResponse ответ на start / pause-toggle / end
type PunchActionResponse struct {
	Punch      *Punch  `json:"punch,omitempty"`
	Punches    []Punch `json:"punches,omitempty"`
	OK         bool    `json:"ok"`
	Idempotent bool    `json:"idempotent,omitempty"`
}

// PunchList представляет ответ /time-punch/list
type PunchList struct {
	TZ         string  `json:"tz"`
	Punches    []Punch `json:"punches"`
	EmployeeID int     `json:"employee_id"`
}

// WorkSession сессия IN→OUT, агрегированная сервером
type WorkSession struct {
	Out          *string `json:"out"`
	Date         string  `json:"date"` // YYYY-MM-DD
	In           string  `json:"in"`
	GrossSeconds int64   `json:"gross_seconds"`
	BreakSeconds int64   `json:"break_seconds"`
	NetSeconds   int64   `json:"net_seconds"`
}

// Summary представляет ответ /time-punch/summary
type Summary struct {
	HumanTotal   string        `json:"human_total"`
	Sessions     []WorkSession `json:"sessions"`
	TotalHours   float64       `json:"total_hours"`
	TotalSeconds int64         `json:"total_seconds"`
	DaysWorked   int           `json:"days_worked"`
	EmployeeID   int           `json:"employee_id"`
}

// PunchQuery параметры запросов summary и list
type PunchQuery struct {
	From       string // YYYY-MM-DD
	To         string // YYYY-MM-DD
	TZ         string
	EmployeeID int // 0 - текущий сотрудник
}

// HolidayBalance представляет ответ /holidays/balance/me
type HolidayBalance struct {
	UpdatedAt     *string `json:"updated_at,omitempty"`
	CompanyID     int     `json:"company_id"`
	EmployeeID    int     `json:"employee_id"`
	Year          int     `json:"year"`
	AllocatedDays int     `json:"allocated_days"`
	UsedDays      int     `json:"used_days"`
	PendingDays   int     `json:"pending_days"`
	RemainingDays int     `json:"remaining_days"`
}

// HolidayAllocation тело PUT /holidays/balance/allocate; Year=0 - текущий год на сервере
type HolidayAllocation struct {
	EmployeeID    int `json:"employee_id"`
	Year          int `json:"year,omitempty"`
	AllocatedDays int `json:"allocated_days"`
}

// PayrollUpload поля формы POST /payrolls помимо самого PDF
type PayrollUpload struct {
	EmployeeID int
	Month      int
	Year       int
}
