// Package orderrepo provides the in-memory order store. Orders live for the
// lifetime of the process; there is no deletion and no persistence.
package orderrepo

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// ShardCount is the number of independently locked partitions.
const ShardCount = 16

type shard struct {
	mu     sync.RWMutex
	orders map[kernel.UUID]*order.Order
}

// OrderRepository is a concurrency-safe map of order id to live order.
// Keys are spread over ShardCount shards so that unrelated orders do not
// contend on a single lock.
type OrderRepository struct {
	shards [ShardCount]*shard
}

// NewOrderRepository creates an empty store.
func NewOrderRepository() *OrderRepository {
	r := &OrderRepository{}
	for i := range r.shards {
		r.shards[i] = &shard{orders: make(map[kernel.UUID]*order.Order)}
	}
	return r
}

// routeByOrderID picks the shard for id.
func routeByOrderID(id kernel.UUID) int {
	raw := id.Bytes()
	h := fnv.New32a()
	_, _ = h.Write(raw[:])
	return int(h.Sum32() % ShardCount)
}

func (r *OrderRepository) shardFor(id kernel.UUID) *shard {
	return r.shards[routeByOrderID(id)]
}

// Add stores aggregate. It never overwrites an existing entry.
func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	s := r.shardFor(aggregate.ID())
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[aggregate.ID()]; exists {
		return errs.NewObjectAlreadyExistsError("order", aggregate.ID().String())
	}

	s.orders[aggregate.ID()] = aggregate
	return nil
}

// Get returns the order for id.
func (r *OrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, bool) {
	s := r.shardFor(id)
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	return o, ok
}

// GetAll returns every stored order, oldest first.
func (r *OrderRepository) GetAll(_ context.Context) []*order.Order {
	return r.collect(func(*order.Order) bool { return true })
}

// GetAllInStatus returns the orders whose current status equals status.
func (r *OrderRepository) GetAllInStatus(_ context.Context, status order.Status) []*order.Order {
	return r.collect(func(o *order.Order) bool { return o.Status() == status })
}

// Count returns the number of stored orders.
func (r *OrderRepository) Count() int {
	total := 0
	for _, s := range r.shards {
		s.mu.RLock()
		total += len(s.orders)
		s.mu.RUnlock()
	}
	return total
}

func (r *OrderRepository) collect(keep func(*order.Order) bool) []*order.Order {
	result := make([]*order.Order, 0)
	for _, s := range r.shards {
		s.mu.RLock()
		for _, o := range s.orders {
			if keep(o) {
				result = append(result, o)
			}
		}
		s.mu.RUnlock()
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt().Before(result[j].CreatedAt())
	})

	return result
}
