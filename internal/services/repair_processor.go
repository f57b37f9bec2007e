package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/internal/infrastructure/buffer"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// EdgeApplier replays one counterpart edge change idempotently.
type EdgeApplier interface {
	ApplyEdgeChange(ctx context.Context, change domain.EdgeChange) error
}

// ProcessorConfig controls how frequently the repair queue is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// RepairProcessor replays queued counterpart edge changes on a schedule.
type RepairProcessor struct {
	store   *buffer.Store
	monitor ConnectionHealth
	applier EdgeApplier
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ProcessorConfig
}

func NewRepairProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	applier EdgeApplier,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *RepairProcessor {
	if cfg.Interval < time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rp := &RepairProcessor{
		store:   store,
		monitor: monitor,
		applier: applier,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = rp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if _, err := rp.Drain(ctx); err != nil {
			rp.logger.Error("repair drain failed", zap.Error(err))
		}
	})
	if cfg.Retention > 0 {
		_, _ = rp.cron.AddFunc("@hourly", rp.cleanup)
	}

	return rp
}

// Start launches the cron scheduler.
func (rp *RepairProcessor) Start() {
	if rp == nil || rp.cron == nil {
		return
	}
	rp.cron.Start()
	rp.logger.Info("repair processor started", zap.Duration("interval", rp.cfg.Interval))
}

// Stop waits for a running drain to finish or ctx to expire.
func (rp *RepairProcessor) Stop(ctx context.Context) {
	if rp == nil || rp.cron == nil {
		return
	}
	stopCtx := rp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	rp.logger.Info("repair processor stopped")
}

// Drain replays one batch and returns how many changes were applied.
func (rp *RepairProcessor) Drain(ctx context.Context) (int, error) {
	if rp == nil || rp.store == nil || rp.applier == nil {
		return 0, nil
	}
	if rp.monitor != nil && !rp.monitor.IsOnline() {
		rp.logger.Debug("skipping repair drain (offline)")
		return 0, nil
	}

	items, err := rp.store.GetBatch(rp.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		logger := rp.logger.With(
			zap.String("operation_id", item.ID),
			zap.String("owner_id", item.Change.OwnerID),
			zap.String("collection", string(item.Change.Collection)),
		)

		err := rp.applier.ApplyEdgeChange(ctx, item.Change)
		switch {
		case err == nil:
			applied++
			logger.Info("edge change repaired", zap.Int("retries", item.Retries))
		case errors.Is(err, domain.ErrStaleEdgeChange):
			logger.Info("dropping edge change overtaken by a later operation")
		case errors.Is(err, domain.ErrProfileNotFound), errors.Is(err, domain.ErrInvalidPayload):
			logger.Warn("dropping edge change that can no longer apply", zap.Error(err))
		default:
			item.Retries++
			item.LastError = err.Error()
			if item.Retries >= rp.cfg.MaxRetries {
				logger.Error("parking edge change in dead letters (max retries reached)", zap.Error(err))
				if err := rp.store.Bury(item); err != nil {
					logger.Error("failed to park edge change", zap.Error(err))
				}
				continue
			}
			logger.Warn("edge change repair failed", zap.Int("retries", item.Retries), zap.Error(err))
			if err := rp.store.Requeue(item); err != nil {
				logger.Error("failed to requeue edge change", zap.Error(err))
			}
			continue
		}

		if err := rp.store.Remove(item); err != nil {
			logger.Warn("failed to purge edge change", zap.Error(err))
		}
	}
	return applied, nil
}

// Size returns the number of queued changes.
func (rp *RepairProcessor) Size() int {
	if rp == nil || rp.store == nil {
		return 0
	}
	size, err := rp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

// Revive returns every parked change to the queue with a fresh retry budget.
func (rp *RepairProcessor) Revive() (int, error) {
	if rp == nil || rp.store == nil {
		return 0, nil
	}
	revived, err := rp.store.Revive()
	if err != nil {
		return 0, err
	}
	if revived > 0 {
		rp.logger.Info("dead-letter edge changes revived", zap.Int("count", revived))
	}
	return revived, nil
}

func (rp *RepairProcessor) cleanup() {
	removed, err := rp.store.Cleanup(time.Now().Add(-rp.cfg.Retention))
	if err != nil {
		rp.logger.Error("repair queue cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		rp.logger.Warn("expired edge changes parked in dead letters", zap.Int("count", removed))
	}
}
