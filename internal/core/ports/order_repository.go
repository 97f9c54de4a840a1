// Package ports defines the contracts between the order core and its
// collaborators: the order store, status-change observers and the deferred
// timer used by the scheduler.
package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderRepository defines the storage contract for order aggregates.
// Implementations must be safe for concurrent use from request handlers and
// scheduled tasks.
type OrderRepository interface {
	// Add stores a new order. An existing order is never overwritten; a
	// duplicate id yields errs.ObjectAlreadyExistsError.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get returns the live order for id, or false when it is unknown.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, bool)

	// GetAll returns a point-in-time view of every stored order.
	// The result order is unspecified.
	GetAll(ctx context.Context) []*order.Order

	// GetAllInStatus returns every stored order whose status equals status at
	// the time it is examined.
	//
	// Example:
	//   pending := repo.GetAllInStatus(ctx, order.Pending)
	//   for _, o := range pending {
	//       fmt.Println(o.ID())
	//   }
	GetAllInStatus(ctx context.Context, status order.Status) []*order.Order
}
