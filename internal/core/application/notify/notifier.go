// Package notify fans committed order status changes out to observers.
package notify

import (
	"context"
	"sync"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// Notifier holds the observer list. Observers are registered during setup
// (initial list or Subscribe) and invoked synchronously, in registration
// order, before Notify returns.
type Notifier struct {
	mu        sync.RWMutex
	observers []ports.OrderObserver
}

// NewNotifier creates a notifier with an initial observer list. Nil entries
// are skipped.
func NewNotifier(observers ...ports.OrderObserver) *Notifier {
	n := &Notifier{}
	for _, observer := range observers {
		n.Subscribe(observer)
	}
	return n
}

// Subscribe appends observer to the list.
func (n *Notifier) Subscribe(observer ports.OrderObserver) {
	if observer == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.observers = append(n.observers, observer)
}

// Notify delivers snapshot to every observer.
func (n *Notifier) Notify(ctx context.Context, snapshot order.Snapshot) {
	n.mu.RLock()
	observers := make([]ports.OrderObserver, len(n.observers))
	copy(observers, n.observers)
	n.mu.RUnlock()

	for _, observer := range observers {
		observer.OnOrderStatusChanged(ctx, snapshot)
	}
}

// Len returns the number of registered observers.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return len(n.observers)
}
