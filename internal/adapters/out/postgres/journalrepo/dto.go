// Package journalrepo keeps an append-only history of order status changes in
// a relational database. It is an order observer: every committed change
// becomes one row in order_status_events.
package journalrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatusEventDTO represents one journal row. Indexed by order id for
// history lookups.
type OrderStatusEventDTO struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Status     int             `gorm:"not null"`
	Total      decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	ItemCount  int             `gorm:"not null"`
	OccurredAt time.Time       `gorm:"index;not null"`
}

// TableName overrides GORM's default naming.
func (OrderStatusEventDTO) TableName() string {
	return "order_status_events"
}

// StatusEvent is one entry of an order's history.
type StatusEvent struct {
	OrderID    kernel.UUID
	Status     order.Status
	Total      decimal.Decimal
	ItemCount  int
	OccurredAt time.Time
}

// fromSnapshot converts a snapshot to its journal row.
func fromSnapshot(snapshot order.Snapshot) OrderStatusEventDTO {
	return OrderStatusEventDTO{
		OrderID:    snapshot.ID.Bytes(),
		Status:     int(snapshot.Status),
		Total:      snapshot.Total,
		ItemCount:  len(snapshot.Items),
		OccurredAt: snapshot.UpdatedAt,
	}
}

// toEvent converts a journal row back, rejecting rows that no longer map to
// a valid id or status.
func toEvent(dto OrderStatusEventDTO) (StatusEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return StatusEvent{}, err
	}

	status := order.Status(dto.Status)
	if err = status.Validate(); err != nil {
		return StatusEvent{}, err
	}

	return StatusEvent{
		OrderID:    id,
		Status:     status,
		Total:      dto.Total,
		ItemCount:  dto.ItemCount,
		OccurredAt: dto.OccurredAt,
	}, nil
}
