package queries

import (
	"context"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// GetOrderQueryHandler reads a single order from the store.
type GetOrderQueryHandler struct {
	repo ports.OrderRepository
}

// NewGetOrderQueryHandler creates the handler.
func NewGetOrderQueryHandler(repo ports.OrderRepository) GetOrderQueryHandler {
	return GetOrderQueryHandler{repo: repo}
}

// Handle returns the order's snapshot, or false when the id is unknown.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (order.Snapshot, bool, error) {
	if err := query.Validate(); err != nil {
		return order.Snapshot{}, false, err
	}

	aggregate, ok := h.repo.Get(ctx, query.OrderID())
	if !ok {
		return order.Snapshot{}, false, nil
	}

	return aggregate.Snapshot(), true, nil
}
