package commands

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// CancelOrderCommandHandler cancels orders that are still Pending.
//
// The result is a plain flag: unknown orders, orders past Pending and orders
// that moved on between the check and the transition all report false.
//
// Example:
//
//	cancelled, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err // the command itself was malformed
//	}
//	if !cancelled {
//	    // not found or no longer cancellable
//	}
type CancelOrderCommandHandler struct {
	repo     ports.OrderRepository
	notifier StatusNotifier
}

// NewCancelOrderCommandHandler creates a handler for cancellations.
func NewCancelOrderCommandHandler(repo ports.OrderRepository, notifier StatusNotifier) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		repo:     repo,
		notifier: notifier,
	}
}

// Handle attempts the cancellation.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	aggregate, ok := h.repo.Get(ctx, cmd.OrderID())
	if !ok {
		return false, nil
	}

	if aggregate.Status() != order.Pending {
		return false, nil
	}

	// The status may change between the check above and this call; the
	// transition re-checks under the order lock.
	if err := aggregate.TransitionTo(order.Cancelled); err != nil {
		if errors.Is(err, order.ErrInvalidTransition) {
			return false, nil
		}
		return false, err
	}

	h.notifier.Notify(ctx, aggregate.Snapshot())
	return true, nil
}
