// Package coordinator exposes the order lifecycle as one facade. It owns no
// state of its own: commands and queries do the work, the coordinator
// resolves identifiers and maps outcomes to the caller-facing contract.
package coordinator

import (
	"context"
	"fmt"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// Subscriber registers observers for status changes.
type Subscriber interface {
	Subscribe(observer ports.OrderObserver)
}

// Handlers groups the use cases the coordinator dispatches to.
type Handlers struct {
	CreateOrder     commands.CreateOrderCommandHandler
	CancelOrder     commands.CancelOrderCommandHandler
	AdvanceOrder    commands.AdvanceOrderCommandHandler
	TransitionOrder commands.TransitionOrderCommandHandler
	GetOrder        queries.GetOrderQueryHandler
	ListOrders      queries.ListOrdersQueryHandler
}

// Coordinator is the single entry point for creating, reading and changing
// orders.
type Coordinator struct {
	handlers   Handlers
	subscriber Subscriber
}

// New creates a coordinator.
func New(handlers Handlers, subscriber Subscriber) *Coordinator {
	return &Coordinator{
		handlers:   handlers,
		subscriber: subscriber,
	}
}

// CreateOrder places a new order in Pending and returns its snapshot.
// Invalid lines yield a validation error and nothing is stored.
func (c *Coordinator) CreateOrder(ctx context.Context, lines []commands.OrderLine) (order.Snapshot, error) {
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), lines)
	if err != nil {
		return order.Snapshot{}, err
	}

	return c.handlers.CreateOrder.Handle(ctx, cmd)
}

// GetOrder returns the order for id. Unknown and malformed ids both report
// false.
func (c *Coordinator) GetOrder(ctx context.Context, id string) (order.Snapshot, bool, error) {
	orderID, err := kernel.UUIDFromString(id)
	if err != nil {
		return order.Snapshot{}, false, nil
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return order.Snapshot{}, false, err
	}

	return c.handlers.GetOrder.Handle(ctx, query)
}

// ListOrders returns every order.
func (c *Coordinator) ListOrders(ctx context.Context) ([]order.Snapshot, error) {
	return c.handlers.ListOrders.Handle(ctx, queries.NewListOrdersQuery())
}

// ListOrdersByStatus returns the orders currently in status.
func (c *Coordinator) ListOrdersByStatus(ctx context.Context, status order.Status) ([]order.Snapshot, error) {
	query, err := queries.NewListOrdersByStatusQuery(status)
	if err != nil {
		return nil, err
	}

	return c.handlers.ListOrders.Handle(ctx, query)
}

// CancelOrder cancels a Pending order. It reports false when the id is
// unknown or malformed, when the order already left Pending, and when the
// order moved on while the cancellation was in flight.
func (c *Coordinator) CancelOrder(ctx context.Context, id string) bool {
	orderID, err := kernel.UUIDFromString(id)
	if err != nil {
		return false
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return false
	}

	cancelled, err := c.handlers.CancelOrder.Handle(ctx, cmd)
	return err == nil && cancelled
}

// UndoCreate reverts a CreateOrder by cancelling the order it created. It is
// only possible while the order is still Pending.
func (c *Coordinator) UndoCreate(ctx context.Context, created order.Snapshot) bool {
	return c.CancelOrder(ctx, created.ID.String())
}

// AdvanceOrder moves the order one step along the default path. It reports
// false without error for terminal orders.
func (c *Coordinator) AdvanceOrder(ctx context.Context, id string) (order.Snapshot, bool, error) {
	orderID, err := c.parseID(id)
	if err != nil {
		return order.Snapshot{}, false, err
	}

	cmd, err := commands.NewAdvanceOrderCommand(orderID)
	if err != nil {
		return order.Snapshot{}, false, err
	}

	return c.handlers.AdvanceOrder.Handle(ctx, cmd)
}

// TransitionOrder requests an explicit transition. Illegal targets yield
// *order.InvalidTransitionError.
func (c *Coordinator) TransitionOrder(ctx context.Context, id string, target order.Status) (order.Snapshot, error) {
	orderID, err := c.parseID(id)
	if err != nil {
		return order.Snapshot{}, err
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target)
	if err != nil {
		return order.Snapshot{}, err
	}

	return c.handlers.TransitionOrder.Handle(ctx, cmd)
}

// AddObserver registers observer for every later status change. Intended for
// setup time.
func (c *Coordinator) AddObserver(observer ports.OrderObserver) {
	c.subscriber.Subscribe(observer)
}

func (c *Coordinator) parseID(id string) (kernel.UUID, error) {
	orderID, err := kernel.UUIDFromString(id)
	if err != nil {
		return kernel.UUID{}, fmt.Errorf("%w: %s", commands.ErrOrderNotFound, id)
	}
	return orderID, nil
}
