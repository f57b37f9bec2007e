package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/internal/infrastructure/buffer"
	"github.com/fastygo/social/usecase"
)

// RepairBridge lets the relationship engine queue counterpart changes without
// knowing about BoltDB.
type RepairBridge struct {
	store  *buffer.Store
	logger *zap.Logger
}

func NewRepairBridge(store *buffer.Store, logger *zap.Logger) *RepairBridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepairBridge{store: store, logger: logger}
}

func (b *RepairBridge) Enqueue(ctx context.Context, change domain.EdgeChange) error {
	if b == nil || b.store == nil {
		return domain.NewError(domain.ErrCodeUnavailable, "repair queue not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.store.Enqueue(buffer.NewItem(change)); err != nil {
		return err
	}
	b.logger.Debug("edge change queued for repair", zap.String("operation_id", change.OperationID()))
	return nil
}

var _ usecase.EdgeRepairQueue = (*RepairBridge)(nil)
