package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

var ErrAdvanceDelayIsInvalid = errs.NewValueIsInvalidError("advance delay must be greater than 0")

// PendingOrderProcessor arms one deferred Pending -> Processing step for each
// order it sees in Pending. It is registered as an order observer, so it
// learns about new orders from the creation notification.
type PendingOrderProcessor struct {
	handler commands.ProcessPendingOrderCommandHandler
	timer   ports.DeferredTimer
	delay   time.Duration
	logger  *slog.Logger

	mu    sync.Mutex
	armed map[kernel.UUID]ports.CancelFunc
}

var _ ports.OrderObserver = (*PendingOrderProcessor)(nil)

// NewPendingOrderProcessor creates the processor. delay must be positive.
func NewPendingOrderProcessor(
	handler commands.ProcessPendingOrderCommandHandler,
	timer ports.DeferredTimer,
	delay time.Duration,
	logger *slog.Logger,
) (*PendingOrderProcessor, error) {
	if delay <= 0 {
		return nil, ErrAdvanceDelayIsInvalid
	}

	return &PendingOrderProcessor{
		handler: handler,
		timer:   timer,
		delay:   delay,
		logger:  logger.With("component", "pending_order_processor"),
		armed:   make(map[kernel.UUID]ports.CancelFunc),
	}, nil
}

// OnOrderStatusChanged arms the deferred step for Pending orders. Other
// statuses and orders that are already armed are ignored.
func (p *PendingOrderProcessor) OnOrderStatusChanged(ctx context.Context, snapshot order.Snapshot) {
	if snapshot.Status != order.Pending {
		return
	}

	id := snapshot.ID

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.armed[id]; ok {
		return
	}

	p.armed[id] = p.timer.AfterFunc(p.delay, func() {
		p.fire(id)
	})
	p.logger.DebugContext(ctx, "Deferred processing armed", "order_id", id.String(), "delay", p.delay)
}

// Pending returns the number of armed steps that have not fired yet.
func (p *PendingOrderProcessor) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.armed)
}

// CancelAll withdraws every armed step. Used on shutdown.
func (p *PendingOrderProcessor) CancelAll() {
	p.mu.Lock()
	armed := p.armed
	p.armed = make(map[kernel.UUID]ports.CancelFunc)
	p.mu.Unlock()

	for _, cancel := range armed {
		cancel()
	}
}

func (p *PendingOrderProcessor) fire(id kernel.UUID) {
	p.mu.Lock()
	delete(p.armed, id)
	p.mu.Unlock()

	ctx := context.Background()
	cmd, err := commands.NewProcessPendingOrderCommand(id)
	if err != nil {
		p.logger.ErrorContext(ctx, "Deferred processing failed", "order_id", id.String(), "error", err)
		return
	}

	err = p.handler.Handle(ctx, cmd)
	switch {
	case err == nil:
		p.logger.InfoContext(ctx, "Order moved to processing", "order_id", id.String())
	case errors.Is(err, commands.ErrOrderIsNotPending), errors.Is(err, commands.ErrOrderNotFound):
		p.logger.DebugContext(ctx, "Deferred processing skipped", "order_id", id.String(), "reason", err)
	default:
		p.logger.ErrorContext(ctx, "Deferred processing failed", "order_id", id.String(), "error", err)
	}
}
