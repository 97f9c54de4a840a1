// Package jobs provides the deferred background work of the order service.
//
// This package builds on github.com/robfig/cron/v3. Instead of a recurring
// cron expression, every task is a one-shot entry with its own schedule that
// fires once at a fixed instant and is then removed.
//
// # Components
//
// 1. CronTimer - a ports.DeferredTimer: AfterFunc(delay, task) arms a single
// run and returns an idempotent cancel function
// 2. PendingOrderProcessor - an order observer that arms one deferred
// Pending -> Processing step for every newly created order
// 3. JobManager - starts and stops the timer together with the processor
//
// # Usage
//
//	timer := jobs.NewCronTimer(logger)
//	processor, err := jobs.NewPendingOrderProcessor(handler, timer, 5*time.Minute, logger)
//	if err != nil {
//		log.Fatal("invalid advance delay:", err)
//	}
//	notifier.Subscribe(processor)
//
//	jobManager := jobs.NewJobManager(timer, processor, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Timing
//
// The deferred step reads the order status when it fires, not when it was
// armed. An order cancelled before the delay elapses stays Cancelled, and a
// task that fires twice changes nothing the second time.
//
// # Error Handling
//
// - Expected outcomes (order no longer Pending, order unknown) are logged at debug level
// - Anything else is logged as an error; nothing is propagated to callers
// - A panicking task is recovered and logged by the cron chain
package jobs
