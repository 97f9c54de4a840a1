package commands

import (
	"context"
	"fmt"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// TransitionOrderCommandHandler applies an explicit transition.
// An illegal target yields *order.InvalidTransitionError and leaves the order
// unchanged.
//
// Example:
//
//	cmd, _ := NewTransitionOrderCommand(id, order.Shipped)
//	snapshot, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrInvalidTransition) {
//	    // the order was not in Processing
//	}
type TransitionOrderCommandHandler struct {
	repo     ports.OrderRepository
	notifier StatusNotifier
}

// NewTransitionOrderCommandHandler creates the handler.
func NewTransitionOrderCommandHandler(
	repo ports.OrderRepository,
	notifier StatusNotifier,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		repo:     repo,
		notifier: notifier,
	}
}

// Handle performs the transition.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	aggregate, ok := h.repo.Get(ctx, cmd.OrderID())
	if !ok {
		return order.Snapshot{}, fmt.Errorf("%w: %s", ErrOrderNotFound, cmd.OrderID())
	}

	if err := aggregate.TransitionTo(cmd.Target()); err != nil {
		return order.Snapshot{}, err
	}

	snapshot := aggregate.Snapshot()
	h.notifier.Notify(ctx, snapshot)

	return snapshot, nil
}
