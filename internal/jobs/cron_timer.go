package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"orderflow/internal/core/ports"

	"github.com/robfig/cron/v3"
)

var ErrTimerAlreadyStarted = errors.New("timer is already started")

// onceSchedule yields fireAt on the first call and the zero time afterwards,
// which cron treats as "never again".
type onceSchedule struct {
	fireAt time.Time
	used   atomic.Bool
}

func (s *onceSchedule) Next(time.Time) time.Time {
	if s.used.Swap(true) {
		return time.Time{}
	}
	return s.fireAt
}

// CronTimer runs one-shot deferred tasks on a cron scheduler.
// Tasks armed before Start wait until the timer starts.
type CronTimer struct {
	cron    *cron.Cron
	logger  *slog.Logger
	started atomic.Bool
}

var _ ports.DeferredTimer = (*CronTimer)(nil)

// NewCronTimer creates a stopped timer.
func NewCronTimer(logger *slog.Logger) *CronTimer {
	logger = logger.With("component", "cron_timer")

	return &CronTimer{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLogger{logger: logger})),
		),
		logger: logger,
	}
}

// AfterFunc arms task to run once after delay. The returned cancel func
// removes the entry; it does nothing if the task already ran.
func (t *CronTimer) AfterFunc(delay time.Duration, task func()) ports.CancelFunc {
	schedule := &onceSchedule{fireAt: time.Now().Add(delay)}
	scheduled := make(chan struct{})

	var id cron.EntryID
	id = t.cron.Schedule(schedule, cron.FuncJob(func() {
		<-scheduled
		defer t.cron.Remove(id)
		task()
	}))
	close(scheduled)

	var once sync.Once
	return func() {
		once.Do(func() {
			t.cron.Remove(id)
		})
	}
}

// Pending returns the number of armed tasks that have not fired yet.
func (t *CronTimer) Pending() int {
	count := 0
	for _, entry := range t.cron.Entries() {
		if !entry.Next.IsZero() || !t.started.Load() {
			count++
		}
	}
	return count
}

// Start begins firing tasks.
func (t *CronTimer) Start() error {
	if !t.started.CompareAndSwap(false, true) {
		return ErrTimerAlreadyStarted
	}

	t.cron.Start()
	t.logger.InfoContext(context.Background(), "Deferred timer started")
	return nil
}

// Stop halts the scheduler, waits for running tasks and drops every
// outstanding entry. Calling Stop more than once is safe.
func (t *CronTimer) Stop() {
	if !t.started.CompareAndSwap(true, false) {
		return
	}

	<-t.cron.Stop().Done()
	for _, entry := range t.cron.Entries() {
		t.cron.Remove(entry.ID)
	}
	t.logger.InfoContext(context.Background(), "Deferred timer stopped")
}
