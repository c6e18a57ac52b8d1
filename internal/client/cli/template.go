package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"text/template"

	"github.com/iudanet/staffdesk/internal/client/tracker"
	"github.com/iudanet/staffdesk/internal/timepunch"
	pkgapi "github.com/iudanet/staffdesk/pkg/api"
)

const loginText = `
✓ Login successful!
{{- with .User }}
Employee: {{ .Email }}{{ if .Name }} ({{ .Name }}{{ if .Surname }} {{ .Surname }}{{ end }}){{ end }}
{{- end }}
Role:     {{ if .Role }}{{ .Role }}{{ else }}none{{ end }}
Session:  {{ .Scope }}{{ if eq .Scope.String "ephemeral" }} (cleared when the OS session ends; use --remember to keep it){{ end }}
`

const statusText = `=== Authentication Status ===

{{- if .Authorized }}
Status:        Authenticated
{{- if .Name }}
Employee:      {{ .Name }}
{{- end }}
Role:          {{ if .Role }}{{ .Role }}{{ else }}none{{ end }}
Staff tools:   {{ if .Staff }}yes{{ else }}no{{ end }}
Stored in:     {{ .Scope }}
Refresh token: {{ if .Refresh }}yes{{ else }}no{{ end }}
{{- else }}
Status: Not authenticated ({{ .State }})

Run 'staffdesk login' to authenticate.
{{- end }}
`

const profileText = `=== Profile ===

ID:       {{ .Profile.ID }}
{{- if .Name }}
Name:     {{ .Name }}
{{- end }}
{{- if .Profile.Email }}
Email:    {{ .Profile.Email }}
{{- end }}
{{- if .Profile.CompanyID }}
Company:  {{ .Profile.CompanyID }}
{{- end }}
Role:     {{ if .Role }}{{ .Role }}{{ else }}none{{ end }}
{{- if .Profile.ImageURL }}
Avatar:   {{ .Profile.ImageURL }}
{{- end }}
`

const todayText = `=== Today ===

Shift:  {{ .State }}
Worked: {{ .Worked }}
{{ if .Timeline }}
{{- range .Timeline }}
{{ .Time }}	{{ .Label }}{{ if .Minutes }}	{{ .Minutes }} min{{ end }}
{{- end }}
{{- else }}
No punches today.
{{- end }}
{{- if .Err }}

Warning: {{ .Err }}
{{- end }}
`

const monthText = `=== {{ .Title }} ===
{{ if .Rows }}
Day	In	Out	Breaks	Hours	Extra	Status
{{- range .Rows }}
{{ .DateLabel }}{{ if .IsToday }}*{{ end }}	{{ .In }}	{{ .Out }}	{{ .Breaks }}	{{ .Hours }}	{{ .Extra }}	{{ .Status }}
{{- end }}

Total: {{ .Total }}
{{- else }}
No sessions this month.
{{- end }}
`

const holidayBalanceText = `=== Holidays {{ .Year }} ===

Allocated: {{ .AllocatedDays }} day(s)
Used:      {{ .UsedDays }} day(s)
Pending:   {{ .PendingDays }} day(s)
Remaining: {{ .RemainingDays }} day(s)
`

const usageText = `
StaffDesk Client

Usage:
  staffdesk [OPTIONS] COMMAND [ARGS]

Options:
  --version            Show version information
  --server URL         Backend URL without /api (env STAFFDESK_SERVER, default: http://localhost:3001)
  --db-dir PATH        Directory for the durable session store (env STAFFDESK_DB_DIR, default: ~/.staffdesk)
  --tz ZONE            Time zone for time punch queries (env STAFFDESK_TZ, default: Europe/Madrid)
  --log-level LEVEL    debug, info, warn or error (env STAFFDESK_LOG_LEVEL, default: info)
  --timeout DURATION   HTTP request timeout (env STAFFDESK_TIMEOUT, default: 30s)

Session:
  login [--remember]               Login; --remember keeps the session across reboots
  logout                           Delete the local session
  status                           Show session state and role
  whoami                           Show the employee profile
  avatar upload <file>|delete      Manage the profile image

Time punch:
  punch start|pause|end [note]     Start, pause/resume or end the shift
  timelog [today|month [YYYY-MM|prev|next]]
                                   Show today's timeline or a month of sessions
  watch                            Live counter for the open shift

HR:
  list <resource> [key=value...]   List a collection ({{ .Resources }})
  get <resource> <id>              Show one item
  create <resource> <file.json>    Create an item from a JSON file
  update <resource> <id> <file>    Update an item from a JSON file
  delete <resource> <id>           Delete one item (ADMIN)
  payroll list [limit] [page]      List payroll documents
  payroll upload <employee_id> <YYYY-MM> <file.pdf>
                                   Upload a payroll document (HR)
  payroll delete <id>              Delete a payroll document (HR)
  payroll download <id> <out.pdf>  Save a payroll document
  holidays balance [year]          Show the holiday balance
  holidays allocate <employee_id> <days> [year]
                                   Set the allocated holiday days (HR)
  holidays approve|reject <id>     Decide a holiday request (HR)

Examples:
  staffdesk login --remember
  staffdesk punch start "desde casa"
  staffdesk timelog month 2024-05
  staffdesk list employees company_id=1
  staffdesk --server https://hr.example.com status
`

var (
	loginTemplate          = template.Must(template.New("login").Parse(loginText))
	statusTemplate         = template.Must(template.New("status").Parse(statusText))
	profileTemplate        = template.Must(template.New("profile").Parse(profileText))
	todayTemplate          = template.Must(template.New("today").Parse(todayText))
	monthTemplate          = template.Must(template.New("month").Parse(monthText))
	holidayBalanceTemplate = template.Must(template.New("holidays").Parse(holidayBalanceText))
	usageTemplate          = template.Must(template.New("usage").Parse(usageText))
)

// render выводит шаблон через tabwriter, выравнивая колонки по \t
func render(out io.Writer, tmpl *template.Template, data any) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if err := tmpl.Execute(tw, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", tmpl.Name(), err)
	}
	return tw.Flush()
}

// PrintUsage выводит справку
func PrintUsage(out io.Writer) {
	_ = render(out, usageTemplate, struct{ Resources string }{Resources: resourceList()})
}

type profileView struct {
	Profile *pkgapi.Profile
	Name    string
	Role    string
}

type todayView struct {
	State    string
	Worked   string
	Err      string
	Timeline []timepunch.TimelineEntry
}

func newTodayView(v tracker.View) todayView {
	return todayView{
		State:    shiftState(v),
		Worked:   timepunch.FormatHMS(v.WorkSeconds),
		Err:      v.Err,
		Timeline: v.Timeline,
	}
}

type monthView struct {
	Title string
	Total string
	Rows  []timepunch.Row
}

func shiftState(v tracker.View) string {
	open, paused := v.Status.Open, v.Status.Paused
	if v.Status.LastType == nil && len(v.Punches) > 0 {
		// статус не загрузился, восстанавливаем по отметкам дня
		open, paused = timepunch.IsOpen(v.Punches), timepunch.OnBreak(v.Punches)
	}
	switch {
	case open && paused:
		return "on break"
	case open:
		return "open"
	default:
		return "closed"
	}
}

func summaryTotal(s *pkgapi.Summary) string {
	switch {
	case s == nil:
		return "--"
	case s.HumanTotal != "":
		return s.HumanTotal
	default:
		return timepunch.FormatHoursMinutes(s.TotalSeconds)
	}
}
