package relationship

import (
	"context"

	"github.com/fastygo/social/domain"
)

// Follow records followerID following followeeID and returns the follower's profile.
func (e *Engine) Follow(ctx context.Context, followerID, followeeID string) (*domain.Profile, error) {
	follower, _, err := e.loadPair(ctx, followerID, followeeID)
	if err != nil {
		return nil, err
	}

	edge := e.edge(followeeID)
	follower, err = e.mutate(ctx, followerID, follower, func(p *domain.Profile) (bool, error) {
		if p.Followings.Has(followeeID) {
			return false, domain.ErrAlreadyFollowing
		}
		return p.Followings.Add(edge), nil
	})
	if err != nil {
		return nil, err
	}

	return follower, e.completeCounterpart(ctx, domain.EdgeChange{
		OwnerID:    followeeID,
		Collection: domain.CollectionFollowers,
		Action:     domain.EdgeAdd,
		Edge:       domain.Edge{UserID: followerID, CreatedAt: edge.CreatedAt},
	})
}

// Unfollow drops the following edge and the matching follower edge.
func (e *Engine) Unfollow(ctx context.Context, followerID, followeeID string) (*domain.Profile, error) {
	follower, _, err := e.loadPair(ctx, followerID, followeeID)
	if err != nil {
		return nil, err
	}

	follower, err = e.mutate(ctx, followerID, follower, func(p *domain.Profile) (bool, error) {
		if !p.Followings.Remove(followeeID) {
			return false, domain.ErrNotFollowing
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return follower, e.completeCounterpart(ctx, domain.EdgeChange{
		OwnerID:    followeeID,
		Collection: domain.CollectionFollowers,
		Action:     domain.EdgeRemove,
		Edge:       domain.Edge{UserID: followerID},
	})
}
