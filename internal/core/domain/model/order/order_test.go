package order_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock advances by one second on every read.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Second)
	return c.now
}

func mustItem(t *testing.T, productID string, qty int, price string) order.LineItem {
	t.Helper()

	item, err := order.NewLineItem(productID, qty, decimal.RequireFromString(price))
	require.NoError(t, err)
	return item
}

func newTestOrder(t *testing.T, clock kernel.Clock) *order.Order {
	t.Helper()

	o, err := order.NewOrder(kernel.NewUUID(), []order.LineItem{
		mustItem(t, "SKU-1", 2, "10.00"),
		mustItem(t, "SKU-2", 1, "5.00"),
	}, clock)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create order in Pending with cached total", func(t *testing.T) {
		clock := newStepClock()
		id := kernel.NewUUID()

		o, err := order.NewOrder(id, []order.LineItem{
			mustItem(t, "SKU-1", 2, "10.00"),
			mustItem(t, "SKU-2", 1, "5.00"),
		}, clock)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.Equal(t, order.Pending, o.Status())
		assert.True(t, o.Total().Equal(decimal.RequireFromString("25.00")), o.Total().String())
		assert.Len(t, o.Items(), 2)
		assert.Equal(t, o.CreatedAt(), o.UpdatedAt())
	})

	t.Run("should fail with empty item list", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), nil, newStepClock())

		require.Error(t, err)
		assert.Nil(t, o)
		require.ErrorIs(t, err, order.ErrOrderHasNoItems)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should fail with zero value item", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), []order.LineItem{{}}, newStepClock())

		require.ErrorIs(t, err, order.ErrLineItemIsNotConstructed)
		assert.Nil(t, o)
	})

	t.Run("should fail with invalid id", func(t *testing.T) {
		var id kernel.UUID

		o, err := order.NewOrder(id, []order.LineItem{mustItem(t, "SKU-1", 1, "1")}, newStepClock())

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.Nil(t, o)
	})

	t.Run("should copy items on construct", func(t *testing.T) {
		items := []order.LineItem{mustItem(t, "SKU-1", 1, "1.00")}
		o, err := order.NewOrder(kernel.NewUUID(), items, newStepClock())
		require.NoError(t, err)

		items[0] = mustItem(t, "SKU-X", 9, "99.00")
		returned := o.Items()
		returned[0] = mustItem(t, "SKU-Y", 9, "99.00")

		assert.Equal(t, "SKU-1", o.Items()[0].ProductID())
		assert.True(t, o.Total().Equal(decimal.RequireFromString("1")))
	})

	t.Run("should fall back to system clock", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), []order.LineItem{mustItem(t, "SKU-1", 1, "1")}, nil)

		require.NoError(t, err)
		assert.False(t, o.CreatedAt().IsZero())
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("should fail validation for nil order", func(t *testing.T) {
		var o *order.Order

		assert.Equal(t, order.ErrOrderIsNotConstructed, o.Validate())
	})

	t.Run("should fail validation for zero value order", func(t *testing.T) {
		o := new(order.Order)

		assert.Equal(t, order.ErrOrderIsNotConstructed, o.Validate())
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("should drive the full happy path and reject leaving Delivered", func(t *testing.T) {
		o := newTestOrder(t, newStepClock())

		for _, target := range []order.Status{order.Processing, order.Shipped, order.Delivered} {
			before := o.UpdatedAt()

			require.NoError(t, o.TransitionTo(target))
			assert.Equal(t, target, o.Status())
			assert.True(t, o.UpdatedAt().After(before))
		}

		before := o.UpdatedAt()
		err := o.TransitionTo(order.Cancelled)

		var transitionErr *order.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.Delivered, transitionErr.From)
		assert.Equal(t, order.Cancelled, transitionErr.To)
		assert.Contains(t, err.Error(), "cannot transition from Delivered to Cancelled")
		assert.Equal(t, order.Delivered, o.Status())
		assert.Equal(t, before, o.UpdatedAt(), "failed transition must not touch updatedAt")
	})

	t.Run("should cancel a pending order", func(t *testing.T) {
		o := newTestOrder(t, newStepClock())

		require.NoError(t, o.TransitionTo(order.Cancelled))
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("should reject skipping Processing", func(t *testing.T) {
		o := newTestOrder(t, newStepClock())

		err := o.TransitionTo(order.Shipped)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("should reject cancelling after Processing", func(t *testing.T) {
		o := newTestOrder(t, newStepClock())
		require.NoError(t, o.TransitionTo(order.Processing))

		require.ErrorIs(t, o.TransitionTo(order.Cancelled), order.ErrInvalidTransition)
		assert.Equal(t, order.Processing, o.Status())
	})

	t.Run("should reject self transitions", func(t *testing.T) {
		o := newTestOrder(t, newStepClock())

		require.ErrorIs(t, o.TransitionTo(order.Pending), order.ErrInvalidTransition)
	})
}

func TestOrder_Advance(t *testing.T) {
	t.Run("should walk the lifecycle and stop at Delivered", func(t *testing.T) {
		o := newTestOrder(t, newStepClock())

		for _, expected := range []order.Status{order.Processing, order.Shipped, order.Delivered} {
			status, advanced, err := o.Advance()

			require.NoError(t, err)
			assert.True(t, advanced)
			assert.Equal(t, expected, status)
		}

		before := o.UpdatedAt()
		status, advanced, err := o.Advance()

		require.NoError(t, err)
		assert.False(t, advanced)
		assert.Equal(t, order.Delivered, status)
		assert.Equal(t, before, o.UpdatedAt())
	})

	t.Run("should be a no-op on a cancelled order", func(t *testing.T) {
		o := newTestOrder(t, newStepClock())
		require.NoError(t, o.TransitionTo(order.Cancelled))

		status, advanced, err := o.Advance()

		require.NoError(t, err)
		assert.False(t, advanced)
		assert.Equal(t, order.Cancelled, status)
	})
}

func TestOrder_AdvanceFrom(t *testing.T) {
	t.Run("should advance when status matches", func(t *testing.T) {
		o := newTestOrder(t, newStepClock())

		status, advanced, err := o.AdvanceFrom(order.Pending)

		require.NoError(t, err)
		assert.True(t, advanced)
		assert.Equal(t, order.Processing, status)
	})

	t.Run("should be idempotent when applied twice", func(t *testing.T) {
		o := newTestOrder(t, newStepClock())

		_, _, err := o.AdvanceFrom(order.Pending)
		require.NoError(t, err)
		status, advanced, err := o.AdvanceFrom(order.Pending)

		require.NoError(t, err)
		assert.False(t, advanced)
		assert.Equal(t, order.Processing, status)
	})

	t.Run("should not advance a cancelled order", func(t *testing.T) {
		o := newTestOrder(t, newStepClock())
		require.NoError(t, o.TransitionTo(order.Cancelled))

		status, advanced, err := o.AdvanceFrom(order.Pending)

		require.NoError(t, err)
		assert.False(t, advanced)
		assert.Equal(t, order.Cancelled, status)
	})
}

func TestOrder_Snapshot(t *testing.T) {
	o := newTestOrder(t, newStepClock())
	require.NoError(t, o.TransitionTo(order.Processing))

	snapshot := o.Snapshot()

	assert.True(t, snapshot.ID.IsEqual(o.ID()))
	assert.Equal(t, order.Processing, snapshot.Status)
	assert.True(t, snapshot.Total.Equal(o.Total()))
	assert.Equal(t, o.CreatedAt(), snapshot.CreatedAt)
	assert.Equal(t, o.UpdatedAt(), snapshot.UpdatedAt)
	assert.Len(t, snapshot.Items, 2)

	require.NoError(t, o.TransitionTo(order.Shipped))
	assert.Equal(t, order.Processing, snapshot.Status, "snapshot must not follow later changes")
}

// TestOrder_ConcurrentTransitions races cancellation against the deferred
// advance on the same order; exactly one of them may win.
func TestOrder_ConcurrentTransitions(t *testing.T) {
	for range 200 {
		o := newTestOrder(t, newStepClock())

		var (
			wg        sync.WaitGroup
			cancelErr error
			advanced  bool
		)
		start := make(chan struct{})

		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			cancelErr = o.TransitionTo(order.Cancelled)
		}()
		go func() {
			defer wg.Done()
			<-start
			_, advanced, _ = o.AdvanceFrom(order.Pending)
		}()
		close(start)
		wg.Wait()

		switch o.Status() {
		case order.Cancelled:
			require.NoError(t, cancelErr)
			assert.False(t, advanced)
		case order.Processing:
			require.True(t, errors.Is(cancelErr, order.ErrInvalidTransition))
			assert.True(t, advanced)
		default:
			t.Fatalf("unexpected final status %s", o.Status())
		}
	}
}

// TestOrder_ObservedStatusesFollowTheGraph checks that concurrent readers only
// ever observe statuses moving forward along the lifecycle.
func TestOrder_ObservedStatusesFollowTheGraph(t *testing.T) {
	o := newTestOrder(t, newStepClock())
	done := make(chan struct{})
	observed := make([]order.Status, 0, 1024)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				observed = append(observed, o.Status())
			}
		}
	}()

	var writers sync.WaitGroup
	for range 8 {
		writers.Add(1)
		go func() {
			defer writers.Done()
			for range 10 {
				_, _, _ = o.Advance()
			}
		}()
	}
	writers.Wait()
	close(done)
	wg.Wait()

	rank := map[order.Status]int{
		order.Pending:    0,
		order.Processing: 1,
		order.Shipped:    2,
		order.Delivered:  3,
	}
	assert.Equal(t, order.Delivered, o.Status())
	for i := 1; i < len(observed); i++ {
		prev, cur := observed[i-1], observed[i]
		assert.LessOrEqual(t, rank[prev], rank[cur], "observed backward step %s -> %s", prev, cur)
	}
}
