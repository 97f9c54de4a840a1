package commands

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// CreateOrderCommandHandler builds a Pending order from validated lines,
// stores it and announces it to observers.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(repo, notifier, kernel.NewSystemClock())
//	snapshot, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// snapshot.Status == order.Pending; the deferred advance is now armed
type CreateOrderCommandHandler struct {
	repo     ports.OrderRepository
	notifier StatusNotifier
	clock    kernel.Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(
	repo ports.OrderRepository,
	notifier StatusNotifier,
	clock kernel.Clock,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		repo:     repo,
		notifier: notifier,
		clock:    clock,
	}
}

// Handle creates the order. A validation failure means nothing was stored.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	lines := cmd.Lines()
	items := make([]order.LineItem, 0, len(lines))
	var itemErrs []error
	for idx, line := range lines {
		item, err := order.NewLineItem(line.ProductID, line.Quantity, line.UnitPrice)
		if err != nil {
			itemErrs = append(itemErrs, fmt.Errorf("line %d: %w", idx, err))
			continue
		}
		items = append(items, item)
	}
	if err := errors.Join(itemErrs...); err != nil {
		return order.Snapshot{}, err
	}

	aggregate, err := order.NewOrder(cmd.OrderID(), items, h.clock)
	if err != nil {
		return order.Snapshot{}, err
	}

	if err = h.repo.Add(ctx, aggregate); err != nil {
		return order.Snapshot{}, err
	}

	snapshot := aggregate.Snapshot()
	h.notifier.Notify(ctx, snapshot)

	return snapshot, nil
}
