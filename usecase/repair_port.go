package usecase

import (
	"context"

	"github.com/fastygo/social/domain"
)

// EdgeRepairQueue accepts counterpart edge changes that could not be saved inline.
// Queued changes are replayed until they are applied, so Enqueue must tolerate
// the same change being offered more than once.
type EdgeRepairQueue interface {
	Enqueue(ctx context.Context, change domain.EdgeChange) error
}
