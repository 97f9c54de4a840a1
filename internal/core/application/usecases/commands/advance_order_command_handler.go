package commands

import (
	"context"
	"fmt"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// AdvanceOrderCommandHandler applies the default next step to an order.
// Terminal orders are left alone and reported with advanced=false.
type AdvanceOrderCommandHandler struct {
	repo     ports.OrderRepository
	notifier StatusNotifier
}

// NewAdvanceOrderCommandHandler creates the handler.
func NewAdvanceOrderCommandHandler(repo ports.OrderRepository, notifier StatusNotifier) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{
		repo:     repo,
		notifier: notifier,
	}
}

// Handle advances the order and returns its snapshot and whether a
// transition happened.
func (h AdvanceOrderCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) (order.Snapshot, bool, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, false, err
	}

	aggregate, ok := h.repo.Get(ctx, cmd.OrderID())
	if !ok {
		return order.Snapshot{}, false, fmt.Errorf("%w: %s", ErrOrderNotFound, cmd.OrderID())
	}

	_, advanced, err := aggregate.Advance()
	if err != nil {
		return order.Snapshot{}, false, err
	}

	snapshot := aggregate.Snapshot()
	if advanced {
		h.notifier.Notify(ctx, snapshot)
	}

	return snapshot, advanced, nil
}
