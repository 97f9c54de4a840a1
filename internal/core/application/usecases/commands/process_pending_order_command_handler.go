package commands

import (
	"context"
	"fmt"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// ProcessPendingOrderCommandHandler advances a Pending order to Processing.
// The status is read at run time, not when the task was armed, so a
// cancellation that happened in between wins.
//
// Expected outcomes are reported as errors so the caller can tell them apart:
//   - ErrOrderNotFound: the id is unknown
//   - ErrOrderIsNotPending: the order already left Pending (cancelled, or an
//     earlier run advanced it); nothing changed
type ProcessPendingOrderCommandHandler struct {
	repo     ports.OrderRepository
	notifier StatusNotifier
}

// NewProcessPendingOrderCommandHandler creates the handler.
func NewProcessPendingOrderCommandHandler(
	repo ports.OrderRepository,
	notifier StatusNotifier,
) ProcessPendingOrderCommandHandler {
	return ProcessPendingOrderCommandHandler{
		repo:     repo,
		notifier: notifier,
	}
}

// Handle runs the Pending to Processing step.
func (h ProcessPendingOrderCommandHandler) Handle(ctx context.Context, cmd ProcessPendingOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, ok := h.repo.Get(ctx, cmd.OrderID())
	if !ok {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, cmd.OrderID())
	}

	status, advanced, err := aggregate.AdvanceFrom(order.Pending)
	if err != nil {
		return err
	}
	if !advanced {
		return fmt.Errorf("%w: %s is %s", ErrOrderIsNotPending, cmd.OrderID(), status)
	}

	h.notifier.Notify(ctx, aggregate.Snapshot())
	return nil
}
