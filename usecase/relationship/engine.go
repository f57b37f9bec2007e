// Package relationship keeps follow and friend edges consistent across two profiles
// that are loaded and saved independently.
//
// The side owned by the caller's primary profile is saved first under optimistic
// concurrency. The counterpart side is expressed as an idempotent domain.EdgeChange;
// if it cannot be saved the change is queued for repair and the caller receives a
// PartialRelationship error carrying the change's operation id, alongside the
// primary profile that was saved.
package relationship

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
	"github.com/fastygo/social/usecase"
)

type Engine struct {
	profiles repository.ProfileRepository
	repairs  usecase.EdgeRepairQueue
	policy   usecase.RetryPolicy
	now      func() time.Time
	logger   *zap.Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithRetryPolicy overrides usecase.DefaultRetryPolicy for conflicting saves.
func WithRetryPolicy(policy usecase.RetryPolicy) Option {
	return func(e *Engine) { e.policy = policy }
}

// WithClock replaces time.Now for edge timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(profiles repository.ProfileRepository, repairs usecase.EdgeRepairQueue, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		profiles: profiles,
		repairs:  repairs,
		policy:   usecase.DefaultRetryPolicy,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyEdgeChange replays a queued counterpart change. The change is only applied
// while the primary profile still agrees with it; otherwise it fails with
// domain.ErrStaleEdgeChange. Replaying a change that is already reflected in the
// profile succeeds without writing.
func (e *Engine) ApplyEdgeChange(ctx context.Context, change domain.EdgeChange) error {
	if !change.Valid() {
		return domain.ErrInvalidPayload
	}
	primary, err := e.primaryOf(ctx, change)
	if err != nil {
		return err
	}
	if !change.Holds(primary) {
		return domain.ErrStaleEdgeChange
	}
	if err := e.applyCounterpart(ctx, change); err != nil {
		return err
	}

	// An operation on the pair that saved its primary side after the check above can
	// have its own counterpart write land before ours.
	primary, err = e.primaryOf(ctx, change)
	if err != nil || change.Holds(primary) {
		return err
	}
	return e.settle(ctx, change, primary)
}

// primaryOf loads the profile on the other end of change; a deleted profile is nil.
func (e *Engine) primaryOf(ctx context.Context, change domain.EdgeChange) (*domain.Profile, error) {
	profile, err := e.profiles.GetByUser(ctx, change.Edge.UserID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return nil, nil
	}
	return profile, err
}

// settle rewrites the counterpart edge to match primary. Cleared friend requests stay cleared.
func (e *Engine) settle(ctx context.Context, change domain.EdgeChange, primary *domain.Profile) error {
	if change.Collection == domain.CollectionFriendRequests {
		return nil
	}
	fix := domain.EdgeChange{
		OwnerID:    change.OwnerID,
		Collection: change.Collection,
		Action:     domain.EdgeRemove,
		Edge:       domain.Edge{UserID: change.Edge.UserID},
	}
	if primary != nil {
		if edge, ok := primary.Collection(change.Mirror()).Get(change.OwnerID); ok {
			fix.Action = domain.EdgeAdd
			fix.Edge.CreatedAt = edge.CreatedAt
		}
	}
	e.logger.Warn("edge change overtaken while applied, settling on primary state",
		zap.String("operation_id", change.OperationID()),
		zap.String("owner_id", change.OwnerID),
	)
	return e.applyCounterpart(ctx, fix)
}

// loadPair loads both profiles concurrently; a missing profile fails the pair.
func (e *Engine) loadPair(ctx context.Context, primaryID, counterpartID string) (*domain.Profile, *domain.Profile, error) {
	if primaryID == "" || counterpartID == "" {
		return nil, nil, domain.ErrInvalidPayload
	}
	if primaryID == counterpartID {
		return nil, nil, domain.ErrSelfRelation
	}

	var primary, counterpart *domain.Profile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		primary, err = e.profiles.GetByUser(gctx, primaryID)
		return err
	})
	g.Go(func() error {
		var err error
		counterpart, err = e.profiles.GetByUser(gctx, counterpartID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return primary, counterpart, nil
}

// mutate runs fn against the profile of userID and saves it, reloading and re-running
// fn after a version conflict. loaded, when non-nil, serves the first attempt.
// fn returns false when there is nothing to save.
func (e *Engine) mutate(ctx context.Context, userID string, loaded *domain.Profile, fn func(p *domain.Profile) (bool, error)) (*domain.Profile, error) {
	current := loaded
	err := usecase.RetryOnConflict(ctx, e.policy, func() error {
		if current == nil {
			reloaded, err := e.profiles.GetByUser(ctx, userID)
			if err != nil {
				return err
			}
			current = reloaded
		}
		changed, err := fn(current)
		if err != nil || !changed {
			return err
		}
		if err := e.profiles.Save(ctx, current); err != nil {
			current = nil
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return current, nil
}

// applyCounterpart applies changes that all target the same profile in one save.
func (e *Engine) applyCounterpart(ctx context.Context, changes ...domain.EdgeChange) error {
	if len(changes) == 0 {
		return nil
	}
	owner := changes[0].OwnerID
	for _, change := range changes {
		if !change.Valid() || change.OwnerID != owner {
			return domain.ErrInvalidPayload
		}
	}

	_, err := e.mutate(ctx, owner, nil, func(p *domain.Profile) (bool, error) {
		changed := false
		for _, change := range changes {
			if change.Apply(p) {
				changed = true
			}
		}
		return changed, nil
	})
	return err
}

// completeCounterpart finishes the second half of a two-profile mutation.
// A counterpart deleted in the meantime is not an error: there is nothing left to keep in step.
func (e *Engine) completeCounterpart(ctx context.Context, changes ...domain.EdgeChange) error {
	err := e.applyCounterpart(ctx, changes...)
	if err == nil {
		return nil
	}

	first := changes[0]
	logger := e.logger.With(
		zap.String("operation_id", first.OperationID()),
		zap.String("owner_id", first.OwnerID),
		zap.String("collection", string(first.Collection)),
	)

	if errors.Is(err, domain.ErrProfileNotFound) {
		logger.Warn("counterpart profile disappeared, skipping edge change")
		return nil
	}

	for _, change := range changes {
		if e.repairs == nil {
			break
		}
		if qErr := e.repairs.Enqueue(ctx, change); qErr != nil {
			logger.Error("failed to queue edge repair",
				zap.String("queued_operation_id", change.OperationID()),
				zap.Error(qErr),
			)
		}
	}
	logger.Warn("relationship partially applied", zap.Error(err))
	return domain.PartialRelationship(first.OperationID(), err)
}

func (e *Engine) edge(userID string) domain.Edge {
	return domain.Edge{UserID: userID, CreatedAt: e.now()}
}
