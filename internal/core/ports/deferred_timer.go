package ports

import "time"

// CancelFunc withdraws a deferred task. It is idempotent and safe to call
// after the task already ran.
type CancelFunc func()

// DeferredTimer runs a task once after a delay.
type DeferredTimer interface {
	AfterFunc(delay time.Duration, task func()) CancelFunc
}
