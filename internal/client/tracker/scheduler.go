package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// JobID идентификатор запланированной задачи
type JobID int

// Scheduler запускает периодические задачи до Stop
type Scheduler interface {
	Every(interval time.Duration, job func()) (JobID, error)
	Remove(id JobID)
	Start()
	// Stop останавливает планировщик; контекст закрывается,
	// когда завершились уже запущенные задачи
	Stop() context.Context
}

// CronScheduler Scheduler поверх robfig/cron. Перекрывающиеся запуски
// одной задачи пропускаются.
type CronScheduler struct {
	cron *cron.Cron
}

// Compile-time check that CronScheduler implements Scheduler
var _ Scheduler = (*CronScheduler)(nil)

// NewCronScheduler создает планировщик, пишущий в logger
func NewCronScheduler(logger *slog.Logger) *CronScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	return &CronScheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
}

// Every добавляет задачу с расписанием "@every <interval>".
// Минимальный шаг cron - одна секунда.
func (s *CronScheduler) Every(interval time.Duration, job func()) (JobID, error) {
	if interval < time.Second {
		return 0, fmt.Errorf("interval %s is below one second", interval)
	}
	id, err := s.cron.AddFunc("@every "+interval.String(), job)
	if err != nil {
		return 0, fmt.Errorf("failed to schedule job: %w", err)
	}
	return JobID(id), nil
}

func (s *CronScheduler) Remove(id JobID) {
	s.cron.Remove(cron.EntryID(id))
}

func (s *CronScheduler) Start() {
	s.cron.Start()
}

func (s *CronScheduler) Stop() context.Context {
	return s.cron.Stop()
}

// cronLogger адаптирует slog к cron.Logger
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
