package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrProcessPendingOrderCommandIsNotConstructed = errors.New(
	"ProcessPendingOrderCommand must be created via NewProcessPendingOrderCommand constructor",
)

// ProcessPendingOrderCommand is the body of the deferred task armed for every
// new order: move it from Pending to Processing if it is still Pending.
type ProcessPendingOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewProcessPendingOrderCommand creates the command for orderID.
func NewProcessPendingOrderCommand(orderID kernel.UUID) (ProcessPendingOrderCommand, error) {
	cmd := ProcessPendingOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return ProcessPendingOrderCommand{}, err
	}
	cmd.orderID = orderID

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ProcessPendingOrderCommand) Validate() error {
	return c.guard.Validate(ErrProcessPendingOrderCommandIsNotConstructed)
}

// OrderID returns the order to process.
func (c ProcessPendingOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}
