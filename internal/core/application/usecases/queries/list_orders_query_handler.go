package queries

import (
	"context"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// ListOrdersQueryHandler returns point-in-time snapshots of stored orders.
// The result order is not part of the contract.
//
// Example:
//
//	query, _ := NewListOrdersByStatusQuery(order.Pending)
//	pending, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d orders awaiting processing\n", len(pending))
type ListOrdersQueryHandler struct {
	repo ports.OrderRepository
}

// NewListOrdersQueryHandler creates the handler.
func NewListOrdersQueryHandler(repo ports.OrderRepository) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{repo: repo}
}

// Handle runs the query.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var orders []*order.Order
	if status, ok := query.Status(); ok {
		orders = h.repo.GetAllInStatus(ctx, status)
	} else {
		orders = h.repo.GetAll(ctx)
	}

	snapshots := make([]order.Snapshot, 0, len(orders))
	for _, o := range orders {
		snapshot := o.Snapshot()
		// The order may have moved on since the store examined it.
		if status, ok := query.Status(); ok && snapshot.Status != status {
			continue
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}
