package jobs_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTask struct {
	delay     time.Duration
	task      func()
	cancelled int
}

// fakeTimer records armed tasks; tests fire them by hand.
type fakeTimer struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

func (f *fakeTimer) AfterFunc(delay time.Duration, task func()) ports.CancelFunc {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTask{delay: delay, task: task}
	f.tasks = append(f.tasks, t)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		t.cancelled++
	}
}

func (f *fakeTimer) fire(i int) {
	f.mu.Lock()
	task := f.tasks[i].task
	f.mu.Unlock()

	task()
}

func (f *fakeTimer) armed() []*fakeTask {
	f.mu.Lock()
	defer f.mu.Unlock()

	tasks := make([]*fakeTask, len(f.tasks))
	copy(tasks, f.tasks)
	return tasks
}

func recordStatuses(seen *[]order.Status) ports.OrderObserver {
	return ports.OrderObserverFunc(func(_ context.Context, snapshot order.Snapshot) {
		*seen = append(*seen, snapshot.Status)
	})
}
