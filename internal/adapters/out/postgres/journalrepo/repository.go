package journalrepo

import (
	"context"
	"log/slog"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormJournal implements the status journal using GORM.
type GormJournal struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ ports.OrderObserver = (*GormJournal)(nil)

// NewGormJournal creates a new GORM status journal.
func NewGormJournal(db *gorm.DB, logger *slog.Logger) *GormJournal {
	return &GormJournal{
		db:     db,
		logger: logger.With("component", "status_journal"),
	}
}

// AutoMigrate creates or updates the journal table.
func (j *GormJournal) AutoMigrate(ctx context.Context) error {
	return j.db.WithContext(ctx).AutoMigrate(&OrderStatusEventDTO{})
}

// OnOrderStatusChanged records the change. A failed write is logged and
// dropped; the order itself is already committed.
func (j *GormJournal) OnOrderStatusChanged(ctx context.Context, snapshot order.Snapshot) {
	if err := j.Append(ctx, snapshot); err != nil {
		j.logger.ErrorContext(ctx, "Failed to journal status change",
			"order_id", snapshot.ID.String(),
			"status", snapshot.Status.String(),
			"error", err,
		)
	}
}

// Append writes one journal row for snapshot.
func (j *GormJournal) Append(ctx context.Context, snapshot order.Snapshot) error {
	if err := snapshot.ID.Validate(); err != nil {
		return err
	}
	if err := snapshot.Status.Validate(); err != nil {
		return err
	}

	dto := fromSnapshot(snapshot)
	return j.db.WithContext(ctx).Create(&dto).Error
}

// History returns the recorded changes of id, oldest first.
func (j *GormJournal) History(ctx context.Context, id kernel.UUID) ([]StatusEvent, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderStatusEventDTO
	if err := j.db.WithContext(ctx).
		Where("order_id = ?", id.Bytes()).
		Order("occurred_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}

	events := make([]StatusEvent, 0, len(dtos))
	for _, dto := range dtos {
		event, err := toEvent(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

// CountByStatus returns how many changes into status were recorded.
func (j *GormJournal) CountByStatus(ctx context.Context, status order.Status) (int64, error) {
	var count int64
	err := j.db.WithContext(ctx).
		Model(&OrderStatusEventDTO{}).
		Where("status = ?", int(status)).
		Count(&count).Error
	return count, err
}
