// Package commands contains the write operations of the order core.
// Every command follows the same pattern: a constructor that validates input,
// a handler that works against the order store, and a notification of the
// committed change.
package commands

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/order"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderIsNotPending = errors.New("order is not pending")
)

// StatusNotifier publishes committed status changes. Handlers call it after
// the change is visible in the store, never while an order lock is held.
type StatusNotifier interface {
	Notify(ctx context.Context, snapshot order.Snapshot)
}
