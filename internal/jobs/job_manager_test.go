package jobs_test

import (
	"testing"
	"time"

	"orderflow/internal/adapters/out/memory/orderrepo"
	"orderflow/internal/core/application/notify"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobManager_StartAllStopAll(t *testing.T) {
	// given
	repo := orderrepo.NewOrderRepository()
	notifier := notify.NewNotifier()
	timer := jobs.NewCronTimer(discardLogger())
	processor, err := jobs.NewPendingOrderProcessor(
		commands.NewProcessPendingOrderCommandHandler(repo, notifier),
		timer,
		time.Hour,
		discardLogger(),
	)
	require.NoError(t, err)
	manager := jobs.NewJobManager(timer, processor, discardLogger())

	// when
	require.NoError(t, manager.StartAll())
	processor.OnOrderStatusChanged(t.Context(), order.Snapshot{ID: kernel.NewUUID(), Status: order.Pending})
	require.Equal(t, 1, processor.Pending())
	manager.StopAll()

	// then
	assert.Zero(t, processor.Pending())
	assert.Zero(t, timer.Pending())
}

func TestJobManager_StartAllTwice(t *testing.T) {
	timer := jobs.NewCronTimer(discardLogger())
	handler := commands.NewProcessPendingOrderCommandHandler(orderrepo.NewOrderRepository(), notify.NewNotifier())
	processor, err := jobs.NewPendingOrderProcessor(handler, timer, time.Second, discardLogger())
	require.NoError(t, err)
	manager := jobs.NewJobManager(timer, processor, discardLogger())

	require.NoError(t, manager.StartAll())
	defer manager.StopAll()

	err = manager.StartAll()

	require.ErrorIs(t, err, jobs.ErrTimerAlreadyStarted)
}
