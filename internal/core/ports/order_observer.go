package ports

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// OrderObserver is notified after every committed status change, including
// creation. It receives an immutable snapshot, never the live order.
//
// Observers run synchronously on the goroutine that made the change, so they
// must not block for long. Failures are the observer's own concern.
type OrderObserver interface {
	OnOrderStatusChanged(ctx context.Context, snapshot order.Snapshot)
}

// OrderObserverFunc adapts a plain function to OrderObserver.
type OrderObserverFunc func(ctx context.Context, snapshot order.Snapshot)

func (f OrderObserverFunc) OnOrderStatusChanged(ctx context.Context, snapshot order.Snapshot) {
	f(ctx, snapshot)
}
