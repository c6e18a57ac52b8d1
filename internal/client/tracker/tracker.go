// Package tracker keeps the time-punch view of the current day up to date:
// it loads status, punches and the month summary, runs shift actions and,
// while watched, polls the server and recomputes the live counter.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/staffdesk/internal/client/api"
	"github.com/iudanet/staffdesk/internal/client/auth"
	"github.com/iudanet/staffdesk/internal/timepunch"
	pkgapi "github.com/iudanet/staffdesk/pkg/api"
)

var (
	// ErrActionInFlight другое действие еще выполняется
	ErrActionInFlight = errors.New("another punch action is in progress")
	// ErrShiftOpen смена уже открыта
	ErrShiftOpen = errors.New("shift is already open")
	// ErrShiftClosed смена не открыта
	ErrShiftClosed = errors.New("no open shift")
	// ErrAlreadyWatching Watch уже запущен
	ErrAlreadyWatching = errors.New("tracker is already being watched")
)

// Действия смены
const (
	ActionStart = "start"
	ActionPause = "pause"
	ActionEnd   = "end"
)

// Интервалы по умолчанию
const (
	DefaultPollInterval = 60 * time.Second
	DefaultTickInterval = time.Second
)

// Session выполняет вызов с access token, обновляя его при 401
type Session interface {
	WithSession(ctx context.Context, fn func(ctx context.Context, accessToken string) error) error
}

// API subset of the time-punch namespace
type API interface {
	PunchStatus(ctx context.Context, accessToken string) (*pkgapi.PunchStatus, error)
	StartShift(ctx context.Context, accessToken, note string) (*pkgapi.PunchActionResponse, error)
	PauseToggle(ctx context.Context, accessToken, note string) (*pkgapi.PunchActionResponse, error)
	EndShift(ctx context.Context, accessToken, note string) (*pkgapi.PunchActionResponse, error)
	PunchSummary(ctx context.Context, accessToken string, q pkgapi.PunchQuery) (*pkgapi.Summary, error)
	PunchList(ctx context.Context, accessToken string, q pkgapi.PunchQuery) (*pkgapi.PunchList, error)
}

// Compile-time check for the real client
var _ API = (*api.Client)(nil)

// Config параметры трекера
type Config struct {
	Now          func() time.Time // nil - time.Now
	Logger       *slog.Logger
	Location     *time.Location // зона "сегодня"; nil - по TZ или UTC
	TZ           string         // tz для summary/list; "" - api.DefaultTZ
	PollInterval time.Duration
	TickInterval time.Duration
}

// View снимок состояния для отображения
type View struct {
	UpdatedAt   time.Time
	Month       time.Time // первое число показываемого месяца
	Summary     *pkgapi.Summary
	Status      pkgapi.PunchStatus
	Punches     []pkgapi.Punch // сегодняшние, по возрастанию
	Timeline    []timepunch.TimelineEntry
	Rows        []timepunch.Row
	From, To    string // границы месяца
	Action      string // выполняемое действие или ""
	Err         string // последняя ошибка загрузки
	WorkSeconds int64
}

// Tracker состояние экрана учета времени
type Tracker struct {
	session   Session
	api       API
	scheduler Scheduler
	logger    *slog.Logger
	now       func() time.Time
	loc       *time.Location
	tz        string
	poll      time.Duration
	tick      time.Duration

	mu       sync.Mutex
	view     View
	pollJob  *JobID
	pollFn   func()
	watching bool
	onUpdate func(View)
}

// New создает трекер; месяц по умолчанию - текущий
func New(session Session, apiClient API, scheduler Scheduler, cfg Config) *Tracker {
	t := &Tracker{
		session:   session,
		api:       apiClient,
		scheduler: scheduler,
		logger:    cfg.Logger,
		now:       cfg.Now,
		loc:       cfg.Location,
		tz:        cfg.TZ,
		poll:      cfg.PollInterval,
		tick:      cfg.TickInterval,
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.tz == "" {
		t.tz = api.DefaultTZ
	}
	if t.loc == nil {
		loc, err := time.LoadLocation(t.tz)
		if err != nil {
			t.logger.Warn("unknown time zone, using UTC", "tz", t.tz, "error", err)
			loc = time.UTC
		}
		t.loc = loc
	}
	if t.poll <= 0 {
		t.poll = DefaultPollInterval
	}
	if t.tick <= 0 {
		t.tick = DefaultTickInterval
	}

	t.view.Month = timepunch.MonthStart(t.today())
	t.view.From, t.view.To = timepunch.MonthRange(t.view.Month)
	return t
}

func (t *Tracker) today() time.Time {
	return t.now().In(t.loc)
}

// Snapshot возвращает копию текущего состояния
func (t *Tracker) Snapshot() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() View {
	v := t.view
	v.Punches = append([]pkgapi.Punch(nil), t.view.Punches...)
	v.Timeline = append([]timepunch.TimelineEntry(nil), t.view.Timeline...)
	v.Rows = append([]timepunch.Row(nil), t.view.Rows...)
	return v
}

// Refresh загружает статус, месячную сводку и сегодняшние отметки.
// Ошибка одной загрузки не мешает остальным; истекшая сессия
// прерывает обновление сразу.
func (t *Tracker) Refresh(ctx context.Context) error {
	if err := t.loadStatus(ctx); err != nil {
		if errors.Is(err, auth.ErrSessionExpired) || errors.Is(err, auth.ErrNotAuthenticated) {
			return err
		}
		return errors.Join(err, t.loadSummary(ctx), t.loadTodayPunches(ctx))
	}
	return errors.Join(t.loadSummary(ctx), t.loadTodayPunches(ctx))
}

func (t *Tracker) loadStatus(ctx context.Context) error {
	var status *pkgapi.PunchStatus
	err := t.session.WithSession(ctx, func(ctx context.Context, token string) error {
		s, err := t.api.PunchStatus(ctx, token)
		status = s
		return err
	})
	if err != nil {
		t.setError(err)
		return err
	}

	t.mu.Lock()
	t.view.Status = *status
	t.view.UpdatedAt = t.now()
	t.mu.Unlock()

	t.syncPolling()
	return nil
}

func (t *Tracker) loadSummary(ctx context.Context) error {
	t.mu.Lock()
	q := pkgapi.PunchQuery{From: t.view.From, To: t.view.To, TZ: t.tz}
	t.mu.Unlock()

	var summary *pkgapi.Summary
	err := t.session.WithSession(ctx, func(ctx context.Context, token string) error {
		s, err := t.api.PunchSummary(ctx, token, q)
		summary = s
		return err
	})
	if err != nil {
		t.setError(err)
		return err
	}

	rows := timepunch.BuildRows(summary.Sessions, t.today())

	t.mu.Lock()
	// месяц мог смениться, пока шел запрос
	if t.view.From == q.From {
		t.view.Summary = summary
		t.view.Rows = rows
	}
	t.mu.Unlock()
	return nil
}

func (t *Tracker) loadTodayPunches(ctx context.Context) error {
	day := t.today().Format(timepunch.DateLayout)
	q := pkgapi.PunchQuery{From: day, To: day, TZ: t.tz}

	var list *pkgapi.PunchList
	err := t.session.WithSession(ctx, func(ctx context.Context, token string) error {
		l, err := t.api.PunchList(ctx, token, q)
		list = l
		return err
	})
	if err != nil {
		t.setError(err)
		return err
	}

	punches := append([]pkgapi.Punch(nil), list.Punches...)
	timepunch.SortAscending(punches)
	timeline := timepunch.BuildTimeline(punches)
	seconds := timepunch.WorkSecondsToday(punches, t.now())

	t.mu.Lock()
	t.view.Punches = punches
	t.view.Timeline = timeline
	t.view.WorkSeconds = seconds
	t.view.UpdatedAt = t.now()
	t.mu.Unlock()
	return nil
}

func (t *Tracker) setError(err error) {
	t.logger.Warn("time punch request failed", "error", err)
	t.mu.Lock()
	t.view.Err = err.Error()
	t.mu.Unlock()
}

// Start открывает смену
func (t *Tracker) Start(ctx context.Context, note string) error {
	return t.act(ctx, ActionStart, note)
}

// PauseToggle открывает или закрывает перерыв
func (t *Tracker) PauseToggle(ctx context.Context, note string) error {
	return t.act(ctx, ActionPause, note)
}

// End закрывает смену
func (t *Tracker) End(ctx context.Context, note string) error {
	return t.act(ctx, ActionEnd, note)
}

func (t *Tracker) act(ctx context.Context, action, note string) error {
	t.mu.Lock()
	switch {
	case t.view.Action != "":
		t.mu.Unlock()
		return ErrActionInFlight
	case action == ActionStart && t.view.Status.Open:
		t.mu.Unlock()
		return ErrShiftOpen
	case action != ActionStart && !t.view.Status.Open:
		t.mu.Unlock()
		return ErrShiftClosed
	}
	t.view.Action = action
	t.view.Err = ""
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.view.Action = ""
		t.mu.Unlock()
		t.notify()
	}()

	err := t.session.WithSession(ctx, func(ctx context.Context, token string) error {
		var err error
		switch action {
		case ActionStart:
			_, err = t.api.StartShift(ctx, token, note)
		case ActionPause:
			_, err = t.api.PauseToggle(ctx, token, note)
		case ActionEnd:
			_, err = t.api.EndShift(ctx, token, note)
		}
		return err
	})
	if err != nil {
		t.setError(err)
		return fmt.Errorf("punch %s failed: %w", action, err)
	}

	t.logger.Info("punch action done", "action", action)

	// Перерыв не меняет месячную сводку
	if action == ActionPause {
		return errors.Join(t.loadStatus(ctx), t.loadTodayPunches(ctx))
	}
	return errors.Join(t.loadStatus(ctx), t.loadSummary(ctx), t.loadTodayPunches(ctx))
}

// PrevMonth переключает сводку на предыдущий месяц и перезагружает ее
func (t *Tracker) PrevMonth(ctx context.Context) error {
	return t.shiftMonth(ctx, -1)
}

// NextMonth переключает сводку на следующий месяц и перезагружает ее
func (t *Tracker) NextMonth(ctx context.Context) error {
	return t.shiftMonth(ctx, 1)
}

// SetMonth выбирает месяц, содержащий anchor
func (t *Tracker) SetMonth(ctx context.Context, anchor time.Time) error {
	t.mu.Lock()
	t.setMonthLocked(timepunch.MonthStart(anchor.In(t.loc)))
	t.mu.Unlock()
	return t.loadSummary(ctx)
}

func (t *Tracker) shiftMonth(ctx context.Context, n int) error {
	t.mu.Lock()
	t.setMonthLocked(timepunch.AddMonths(t.view.Month, n))
	t.mu.Unlock()
	return t.loadSummary(ctx)
}

func (t *Tracker) setMonthLocked(month time.Time) {
	t.view.Month = month
	t.view.From, t.view.To = timepunch.MonthRange(month)
	t.view.Summary = nil
	t.view.Rows = nil
}

// Watch держит состояние актуальным, пока не отменен ctx: каждую
// секунду пересчитывает счетчик, а пока смена открыта, опрашивает
// сервер. onUpdate вызывается после каждого изменения. Watch
// возвращается только после остановки планировщика.
func (t *Tracker) Watch(ctx context.Context, onUpdate func(View)) error {
	t.mu.Lock()
	if t.watching {
		t.mu.Unlock()
		return ErrAlreadyWatching
	}
	t.watching = true
	t.onUpdate = onUpdate
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var expired error
	var expiredOnce sync.Once
	pollFn := func() {
		err := t.pollOnce(ctx)
		if errors.Is(err, auth.ErrSessionExpired) {
			expiredOnce.Do(func() {
				expired = err
				cancel()
			})
		}
	}
	t.mu.Lock()
	t.pollFn = pollFn
	t.mu.Unlock()

	tickID, err := t.scheduler.Every(t.tick, t.recompute)
	if err != nil {
		t.stopWatching()
		return err
	}

	t.syncPolling()
	t.scheduler.Start()
	t.notify()

	<-ctx.Done()

	<-t.scheduler.Stop().Done()
	t.scheduler.Remove(tickID)
	t.stopWatching()

	t.logger.Debug("watch stopped")
	return expired
}

func (t *Tracker) stopWatching() {
	t.mu.Lock()
	pollJob := t.pollJob
	t.pollJob = nil
	t.watching = false
	t.onUpdate = nil
	t.pollFn = nil
	t.mu.Unlock()

	if pollJob != nil {
		t.scheduler.Remove(*pollJob)
	}
}

// Watching сообщает, запущен ли Watch
func (t *Tracker) Watching() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.watching
}

// Polling сообщает, запланирован ли опрос сервера
func (t *Tracker) Polling() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pollJob != nil
}

// recompute пересчитывает счетчик по последним отметкам без похода в сеть
func (t *Tracker) recompute() {
	t.mu.Lock()
	t.view.WorkSeconds = timepunch.WorkSecondsToday(t.view.Punches, t.now())
	t.mu.Unlock()
	t.notify()
}

func (t *Tracker) pollOnce(ctx context.Context) error {
	if err := t.loadStatus(ctx); err != nil {
		return err
	}
	err := t.loadTodayPunches(ctx)
	t.notify()
	return err
}

// syncPolling добавляет задачу опроса для открытой смены и снимает
// ее, как только смена закрыта
func (t *Tracker) syncPolling() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.watching || t.pollFn == nil {
		return
	}

	switch {
	case t.view.Status.Open && t.pollJob == nil:
		id, err := t.scheduler.Every(t.poll, t.pollFn)
		if err != nil {
			t.logger.Error("failed to schedule status polling", "error", err)
			return
		}
		t.pollJob = &id
		t.logger.Debug("status polling started", "interval", t.poll.String())

	case !t.view.Status.Open && t.pollJob != nil:
		t.scheduler.Remove(*t.pollJob)
		t.pollJob = nil
		t.logger.Debug("status polling stopped")
	}
}

func (t *Tracker) notify() {
	t.mu.Lock()
	fn := t.onUpdate
	v := t.snapshotLocked()
	t.mu.Unlock()

	if fn != nil {
		fn(v)
	}
}
