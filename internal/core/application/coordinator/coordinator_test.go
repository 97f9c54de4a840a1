package coordinator_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"orderflow/internal/adapters/out/memory/orderrepo"
	"orderflow/internal/core/application/coordinator"
	"orderflow/internal/core/application/notify"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/jobs"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	coordinator *coordinator.Coordinator
	repo        *orderrepo.OrderRepository
	processor   *jobs.PendingOrderProcessor
}

// newFixture wires the coordinator the way the application does, with a
// running cron timer and the given advance delay.
func newFixture(t *testing.T, delay time.Duration) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := orderrepo.NewOrderRepository()
	notifier := notify.NewNotifier()

	timer := jobs.NewCronTimer(logger)
	processor, err := jobs.NewPendingOrderProcessor(
		commands.NewProcessPendingOrderCommandHandler(repo, notifier),
		timer,
		delay,
		logger,
	)
	require.NoError(t, err)
	manager := jobs.NewJobManager(timer, processor, logger)
	require.NoError(t, manager.StartAll())
	t.Cleanup(manager.StopAll)

	c := coordinator.New(coordinator.Handlers{
		CreateOrder:     commands.NewCreateOrderCommandHandler(repo, notifier, kernel.NewSystemClock()),
		CancelOrder:     commands.NewCancelOrderCommandHandler(repo, notifier),
		AdvanceOrder:    commands.NewAdvanceOrderCommandHandler(repo, notifier),
		TransitionOrder: commands.NewTransitionOrderCommandHandler(repo, notifier),
		GetOrder:        queries.NewGetOrderQueryHandler(repo),
		ListOrders:      queries.NewListOrdersQueryHandler(repo),
	}, notifier)
	c.AddObserver(processor)

	return &fixture{coordinator: c, repo: repo, processor: processor}
}

func scenarioLines() []commands.OrderLine {
	return []commands.OrderLine{
		{ProductID: "SKU-1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{ProductID: "SKU-2", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
	}
}

func (f *fixture) status(t *testing.T, id kernel.UUID) order.Status {
	t.Helper()

	snapshot, found, err := f.coordinator.GetOrder(t.Context(), id.String())
	require.NoError(t, err)
	require.True(t, found)
	return snapshot.Status
}

func TestCoordinator_CreateAndCancelImmediately(t *testing.T) {
	// given
	f := newFixture(t, time.Hour)

	// when
	created, err := f.coordinator.CreateOrder(t.Context(), scenarioLines())
	require.NoError(t, err)

	// then
	assert.True(t, created.Total.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, order.Pending, created.Status)
	assert.True(t, f.coordinator.CancelOrder(t.Context(), created.ID.String()))
	assert.Equal(t, order.Cancelled, f.status(t, created.ID))
}

func TestCoordinator_AutoAdvanceAfterDelay(t *testing.T) {
	f := newFixture(t, 50*time.Millisecond)

	created, err := f.coordinator.CreateOrder(t.Context(), scenarioLines())
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	assert.Eventually(t, func() bool {
		return f.status(t, created.ID) == order.Processing
	}, time.Second, 10*time.Millisecond)
}

func TestCoordinator_CancelAfterAutoAdvanceFails(t *testing.T) {
	f := newFixture(t, 20*time.Millisecond)

	created, err := f.coordinator.CreateOrder(t.Context(), scenarioLines())
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return f.status(t, created.ID) == order.Processing
	}, time.Second, 10*time.Millisecond)

	assert.False(t, f.coordinator.CancelOrder(t.Context(), created.ID.String()))
	assert.Equal(t, order.Processing, f.status(t, created.ID))
}

func TestCoordinator_ManualLifecycle(t *testing.T) {
	f := newFixture(t, time.Hour)
	created, err := f.coordinator.CreateOrder(t.Context(), scenarioLines())
	require.NoError(t, err)
	id := created.ID.String()

	for _, target := range []order.Status{order.Processing, order.Shipped, order.Delivered} {
		snapshot, transitionErr := f.coordinator.TransitionOrder(t.Context(), id, target)
		require.NoError(t, transitionErr)
		assert.Equal(t, target, snapshot.Status)
	}

	_, err = f.coordinator.TransitionOrder(t.Context(), id, order.Cancelled)

	require.ErrorIs(t, err, order.ErrInvalidTransition)
	assert.Equal(t, order.Delivered, f.status(t, created.ID))
}

func TestCoordinator_ListOrdersByStatus(t *testing.T) {
	f := newFixture(t, time.Hour)

	ids := make([]kernel.UUID, 0, 3)
	for range 3 {
		created, err := f.coordinator.CreateOrder(t.Context(), scenarioLines())
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	require.True(t, f.coordinator.CancelOrder(t.Context(), ids[1].String()))

	pending, err := f.coordinator.ListOrdersByStatus(t.Context(), order.Pending)
	require.NoError(t, err)

	got := make(map[kernel.UUID]bool)
	for _, s := range pending {
		got[s.ID] = true
	}
	assert.Equal(t, map[kernel.UUID]bool{ids[0]: true, ids[2]: true}, got)

	all, err := f.coordinator.ListOrders(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCoordinator_CancelBeforeDelayWins(t *testing.T) {
	f := newFixture(t, 40*time.Millisecond)

	created, err := f.coordinator.CreateOrder(t.Context(), scenarioLines())
	require.NoError(t, err)
	require.True(t, f.coordinator.CancelOrder(t.Context(), created.ID.String()))

	assert.Eventually(t, func() bool { return f.processor.Pending() == 0 }, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, order.Cancelled, f.status(t, created.ID))
}

func TestCoordinator_EmptyOrderIsRejected(t *testing.T) {
	f := newFixture(t, time.Hour)

	_, err := f.coordinator.CreateOrder(t.Context(), nil)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Zero(t, f.repo.Count())
	all, err := f.coordinator.ListOrders(t.Context())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCoordinator_InvalidLineIsRejected(t *testing.T) {
	f := newFixture(t, time.Hour)

	_, err := f.coordinator.CreateOrder(t.Context(), []commands.OrderLine{
		{ProductID: "SKU-1", Quantity: 0, UnitPrice: decimal.RequireFromString("1.00")},
	})

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Zero(t, f.repo.Count())
	assert.Zero(t, f.processor.Pending())
}

func TestCoordinator_UnknownAndMalformedIDs(t *testing.T) {
	f := newFixture(t, time.Hour)

	for _, id := range []string{kernel.NewUUID().String(), "not-a-uuid", ""} {
		_, found, err := f.coordinator.GetOrder(t.Context(), id)
		require.NoError(t, err)
		assert.False(t, found, id)

		assert.False(t, f.coordinator.CancelOrder(t.Context(), id), id)

		_, _, err = f.coordinator.AdvanceOrder(t.Context(), id)
		require.ErrorIs(t, err, commands.ErrOrderNotFound, id)

		_, err = f.coordinator.TransitionOrder(t.Context(), id, order.Processing)
		require.ErrorIs(t, err, commands.ErrOrderNotFound, id)
	}
}

func TestCoordinator_AdvanceOrder(t *testing.T) {
	f := newFixture(t, time.Hour)
	created, err := f.coordinator.CreateOrder(t.Context(), scenarioLines())
	require.NoError(t, err)

	_, err = f.coordinator.TransitionOrder(t.Context(), created.ID.String(), order.Cancelled)
	require.NoError(t, err)

	snapshot, advanced, err := f.coordinator.AdvanceOrder(t.Context(), created.ID.String())

	require.NoError(t, err)
	assert.False(t, advanced)
	assert.Equal(t, order.Cancelled, snapshot.Status)
}

func TestCoordinator_UndoCreate(t *testing.T) {
	f := newFixture(t, time.Hour)
	created, err := f.coordinator.CreateOrder(t.Context(), scenarioLines())
	require.NoError(t, err)

	assert.True(t, f.coordinator.UndoCreate(t.Context(), created))
	assert.False(t, f.coordinator.UndoCreate(t.Context(), created))
	assert.Equal(t, order.Cancelled, f.status(t, created.ID))
}

func TestCoordinator_AddObserver(t *testing.T) {
	// given
	f := newFixture(t, 20*time.Millisecond)

	var (
		mu   sync.Mutex
		seen []order.Status
	)
	f.coordinator.AddObserver(ports.OrderObserverFunc(func(_ context.Context, s order.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s.Status)
	}))

	// when
	created, err := f.coordinator.CreateOrder(t.Context(), scenarioLines())
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return f.status(t, created.ID) == order.Processing
	}, time.Second, 10*time.Millisecond)
	_, err = f.coordinator.TransitionOrder(t.Context(), created.ID.String(), order.Shipped)
	require.NoError(t, err)

	// then
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []order.Status{order.Pending, order.Processing, order.Shipped}, seen)
}

// TestCoordinator_CancelRacesDeferredAdvance runs many orders whose deferred
// step fires while cancellations are in flight. Every order ends in exactly
// one of the two outcomes and the cancel result agrees with it.
func TestCoordinator_CancelRacesDeferredAdvance(t *testing.T) {
	f := newFixture(t, 5*time.Millisecond)

	const orders = 50
	results := make([]bool, orders)
	ids := make([]kernel.UUID, orders)

	var wg sync.WaitGroup
	for i := range orders {
		created, err := f.coordinator.CreateOrder(t.Context(), scenarioLines())
		require.NoError(t, err)
		ids[i] = created.ID

		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(time.Duration(i%10) * time.Millisecond)
			results[i] = f.coordinator.CancelOrder(context.Background(), created.ID.String())
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool { return f.processor.Pending() == 0 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	for i, id := range ids {
		status := f.status(t, id)
		if results[i] {
			assert.Equal(t, order.Cancelled, status)
		} else {
			assert.Equal(t, order.Processing, status)
		}
	}
}
