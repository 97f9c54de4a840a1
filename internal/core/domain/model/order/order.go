package order

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrOrderHasNoItems is returned by NewOrder when the item list is empty.
var ErrOrderHasNoItems = errs.NewValueIsRequiredError("order must contain at least one item")

// Order is the aggregate root of the lifecycle. It owns the single source of
// truth for status and provides the only path to change it.
//
// Order follows these invariants:
//   - Has a valid unique identifier and at least one valid item
//   - Items and total are fixed at construction; the total is never recomputed
//   - Status only moves along edges of the transition table
//   - updatedAt changes on every successful status change and only then
//
// All status reads and transitions on the same Order are serialized by mu, so
// at most one transition is in flight per order.
type Order struct {
	id        kernel.UUID
	items     []LineItem
	total     decimal.Decimal
	createdAt time.Time
	clock     kernel.Clock

	mu        sync.RWMutex
	status    Status
	updatedAt time.Time

	isConstructed bool
}

// NewOrder builds an order in Pending. items is copied, so later changes to the
// caller's slice do not reach the order.
//
// Example:
//
//	item, _ := order.NewLineItem("SKU-1", 2, decimal.RequireFromString("10.00"))
//	o, err := order.NewOrder(kernel.NewUUID(), []order.LineItem{item}, kernel.NewSystemClock())
//	if err != nil {
//	    // validation error, nothing was created
//	}
func NewOrder(id kernel.UUID, items []LineItem, clock kernel.Clock) (*Order, error) {
	if clock == nil {
		clock = kernel.NewSystemClock()
	}

	order := &Order{
		status:        Pending,
		clock:         clock,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setItems(items),
	); err != nil {
		return nil, err
	}

	order.total = sumTotals(order.items)
	order.createdAt = clock.Now()
	order.updatedAt = order.createdAt

	return order, nil
}

// Validate ensures the Order was built by NewOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Items returns a copy of the order lines.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

// Total returns the cached sum of line totals.
func (o *Order) Total() decimal.Decimal {
	return o.total
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Status returns the current status.
func (o *Order) Status() Status {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.status
}

// UpdatedAt returns the time of the last successful status change
// (creation time if there was none).
func (o *Order) UpdatedAt() time.Time {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.updatedAt
}

// Snapshot returns a consistent, immutable copy of the order state.
func (o *Order) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return Snapshot{
		ID:        o.id,
		Status:    o.status,
		Items:     o.Items(),
		Total:     o.total,
		CreatedAt: o.createdAt,
		UpdatedAt: o.updatedAt,
	}
}

// TransitionTo moves the order to target if the transition table allows it.
//
// Returns:
//   - nil on success; status and updatedAt are updated
//   - *InvalidTransitionError naming the current and attempted status otherwise
//
// Example:
//
//	if err := o.TransitionTo(order.Shipped); errors.Is(err, order.ErrInvalidTransition) {
//	    // the order was not in Processing
//	}
func (o *Order) TransitionTo(target Status) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.transitionLocked(target)
}

// Advance applies the default forward step (Pending→Processing,
// Processing→Shipped, Shipped→Delivered).
//
// Returns the resulting status and whether a transition happened. Terminal
// orders are a no-op: (status, false, nil).
func (o *Order) Advance() (Status, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.advanceLocked()
}

// AdvanceFrom advances only if the current status equals expected, checked and
// applied atomically. Otherwise it returns (current, false, nil).
//
// The deferred Pending→Processing task uses it so that a cancellation or an
// earlier run that already moved the order makes the task a no-op.
func (o *Order) AdvanceFrom(expected Status) (Status, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status != expected {
		return o.status, false, nil
	}

	return o.advanceLocked()
}

func (o *Order) advanceLocked() (Status, bool, error) {
	next, ok := o.status.Next()
	if !ok || next == o.status {
		return o.status, false, nil
	}

	if err := o.transitionLocked(next); err != nil {
		return o.status, false, err
	}

	return next, true, nil
}

func (o *Order) transitionLocked(target Status) error {
	if !o.status.CanTransitionTo(target) {
		return NewInvalidTransitionError(o.status, target)
	}

	o.status = target
	o.updatedAt = o.clock.Now()
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return ErrOrderHasNoItems
	}

	for idx, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", idx, err)
		}
	}

	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	return nil
}

func sumTotals(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Total())
	}
	return total
}
