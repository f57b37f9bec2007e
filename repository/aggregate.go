package repository

import (
	"context"

	"github.com/fastygo/social/domain"
)

// AggregateFilter narrows List results. A label filter matches when any key in
// LabelKeys carries LabelValue.
type AggregateFilter struct {
	Kind       string
	OwnerID    string
	LabelKeys  []string
	LabelValue string
	Limit      int
	Offset     int
}

// AggregateStore persists aggregate documents with optimistic concurrency.
// Insert fails with domain.ErrDuplicateKey when (kind, unique key) is taken.
// Update fails with domain.ErrVersionConflict when the stored version differs from
// the document's version; on success the document's version is incremented.
type AggregateStore interface {
	Get(ctx context.Context, kind, id string) (*domain.Aggregate, error)
	FindByUniqueKey(ctx context.Context, kind, key string) (*domain.Aggregate, error)
	List(ctx context.Context, filter AggregateFilter) ([]domain.Aggregate, error)
	Insert(ctx context.Context, aggregate *domain.Aggregate) error
	Update(ctx context.Context, aggregate *domain.Aggregate) error
	Delete(ctx context.Context, kind, id string) error
	Ping(ctx context.Context) error
}

// ClampLimit bounds page sizes to (0, 100].
func ClampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
