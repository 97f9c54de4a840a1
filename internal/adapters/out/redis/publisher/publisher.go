// Package publisher broadcasts order status changes over Redis: every change
// is PUBLISHed as JSON on a channel and the latest status of each order is
// kept in a hash for cheap lookups by other services.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	// StatusHashKey is the hash holding order id -> latest status name.
	StatusHashKey = "orders:status"
	// PositionHashKey holds the lifecycle position of the stored status.
	PositionHashKey = "orders:status:position"
)

// recordStatus overwrites the stored status unless it is further along the
// lifecycle than the new one. Changes of one order are notified from
// different goroutines, so they may arrive out of order.
var recordStatus = redis.NewScript(`
local current = tonumber(redis.call("HGET", KEYS[2], ARGV[1]) or "0")
if tonumber(ARGV[3]) < current then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
redis.call("HSET", KEYS[2], ARGV[1], ARGV[3])
return 1
`)

// lifecyclePosition orders statuses along the lifecycle. Cancelled shares the
// position of Processing since both leave Pending.
func lifecyclePosition(status order.Status) int {
	switch status {
	case order.Pending:
		return 1
	case order.Processing, order.Cancelled:
		return 2
	case order.Shipped:
		return 3
	case order.Delivered:
		return 4
	default:
		return 0
	}
}

// StatusMessage is the JSON payload published for each change.
type StatusMessage struct {
	OrderID   string          `json:"orderId"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// StatusPublisher is an order observer backed by Redis.
type StatusPublisher struct {
	client  redis.UniversalClient
	channel string
	logger  *slog.Logger
}

var _ ports.OrderObserver = (*StatusPublisher)(nil)

// NewStatusPublisher creates a publisher writing to channel.
func NewStatusPublisher(client redis.UniversalClient, channel string, logger *slog.Logger) *StatusPublisher {
	return &StatusPublisher{
		client:  client,
		channel: channel,
		logger:  logger.With("component", "status_publisher"),
	}
}

// OnOrderStatusChanged publishes the change. Failures are logged only.
func (p *StatusPublisher) OnOrderStatusChanged(ctx context.Context, snapshot order.Snapshot) {
	if err := p.Publish(ctx, snapshot); err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish status change",
			"order_id", snapshot.ID.String(),
			"status", snapshot.Status.String(),
			"error", err,
		)
	}
}

// Publish sends snapshot to the channel and records it in StatusHashKey.
// Every change is published; the hash only moves forward.
func (p *StatusPublisher) Publish(ctx context.Context, snapshot order.Snapshot) error {
	payload, err := json.Marshal(StatusMessage{
		OrderID:   snapshot.ID.String(),
		Status:    snapshot.Status.String(),
		Total:     snapshot.Total,
		UpdatedAt: snapshot.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode status message: %w", err)
	}

	_, err = p.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		recordStatus.Eval(ctx, pipe,
			[]string{StatusHashKey, PositionHashKey},
			snapshot.ID.String(), snapshot.Status.String(), lifecyclePosition(snapshot.Status),
		)
		pipe.Publish(ctx, p.channel, payload)
		return nil
	})
	return err
}

// LatestStatus returns the furthest status published for id, or false if
// none was published.
func (p *StatusPublisher) LatestStatus(ctx context.Context, id kernel.UUID) (order.Status, bool, error) {
	raw, err := p.client.HGet(ctx, StatusHashKey, id.String()).Result()
	if errors.Is(err, redis.Nil) {
		return order.Unknown, false, nil
	}
	if err != nil {
		return order.Unknown, false, err
	}

	status, err := order.ParseStatus(raw)
	if err != nil {
		return order.Unknown, false, err
	}

	return status, true, nil
}
