package commands_test

import (
	"context"
	"testing"

	"orderflow/internal/adapters/out/memory/orderrepo"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, snapshot order.Snapshot) {
	m.Called(ctx, snapshot)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, bool) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Bool(1)
}

func (m *MockOrderRepository) GetAll(ctx context.Context) []*order.Order {
	args := m.Called(ctx)
	return args.Get(0).([]*order.Order)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) []*order.Order {
	args := m.Called(ctx, status)
	return args.Get(0).([]*order.Order)
}

// storedOrder places a fresh Pending order in a new in-memory store.
func storedOrder(t *testing.T) (*orderrepo.OrderRepository, *order.Order) {
	t.Helper()

	item, err := order.NewLineItem("SKU-1", 2, decimal.RequireFromString("10.00"))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), []order.LineItem{item}, nil)
	require.NoError(t, err)

	repo := orderrepo.NewOrderRepository()
	require.NoError(t, repo.Add(t.Context(), o))
	return repo, o
}

func snapshotWithStatus(status order.Status) any {
	return mock.MatchedBy(func(s order.Snapshot) bool { return s.Status == status })
}
