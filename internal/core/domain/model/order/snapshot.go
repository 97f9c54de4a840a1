package order

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Snapshot is a point-in-time copy of an Order. It is what leaves the core:
// observers, queries and adapters receive snapshots, never the live entity.
type Snapshot struct {
	ID        kernel.UUID
	Status    Status
	Items     []LineItem
	Total     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
