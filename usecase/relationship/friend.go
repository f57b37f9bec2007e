package relationship

import (
	"context"

	"github.com/fastygo/social/domain"
)

// RequestFriend leaves a pending request from fromID on the recipient's profile.
// Only the recipient's profile is written; the recipient's profile is returned.
func (e *Engine) RequestFriend(ctx context.Context, fromID, toID string) (*domain.Profile, error) {
	_, recipient, err := e.loadPair(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}

	return e.mutate(ctx, toID, recipient, func(p *domain.Profile) (bool, error) {
		if p.Friends.Has(fromID) {
			return false, domain.ErrAlreadyFriends
		}
		if p.FriendRequests.Has(fromID) {
			return false, domain.ErrDuplicateRequest
		}
		return p.FriendRequests.Add(e.edge(fromID)), nil
	})
}

// AcceptFriend turns the pending request from requesterID into a friendship.
// A crossed request the recipient had sent to the requester is cleared as well.
func (e *Engine) AcceptFriend(ctx context.Context, recipientID, requesterID string) (*domain.Profile, error) {
	recipient, _, err := e.loadPair(ctx, recipientID, requesterID)
	if err != nil {
		return nil, err
	}

	edge := e.edge(requesterID)
	recipient, err = e.mutate(ctx, recipientID, recipient, func(p *domain.Profile) (bool, error) {
		if !p.FriendRequests.Remove(requesterID) {
			return false, domain.ErrNoSuchRequest
		}
		p.Friends.Add(edge)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return recipient, e.completeCounterpart(ctx,
		domain.EdgeChange{
			OwnerID:    requesterID,
			Collection: domain.CollectionFriends,
			Action:     domain.EdgeAdd,
			Edge:       domain.Edge{UserID: recipientID, CreatedAt: edge.CreatedAt},
		},
		domain.EdgeChange{
			OwnerID:    requesterID,
			Collection: domain.CollectionFriendRequests,
			Action:     domain.EdgeRemove,
			Edge:       domain.Edge{UserID: recipientID},
		},
	)
}

// RejectFriend declines the pending request from requesterID.
func (e *Engine) RejectFriend(ctx context.Context, recipientID, requesterID string) (*domain.Profile, error) {
	recipient, _, err := e.loadPair(ctx, recipientID, requesterID)
	if err != nil {
		return nil, err
	}

	return e.mutate(ctx, recipientID, recipient, func(p *domain.Profile) (bool, error) {
		if !p.FriendRequests.Remove(requesterID) {
			return false, domain.ErrNoSuchRequest
		}
		return true, nil
	})
}

// CancelRequest withdraws a request fromID sent to toID. The request lives on the
// recipient's profile, which is returned.
func (e *Engine) CancelRequest(ctx context.Context, fromID, toID string) (*domain.Profile, error) {
	_, recipient, err := e.loadPair(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}

	return e.mutate(ctx, toID, recipient, func(p *domain.Profile) (bool, error) {
		if !p.FriendRequests.Remove(fromID) {
			return false, domain.ErrRequestNotFound
		}
		return true, nil
	})
}

// RemoveFriend ends a friendship. Both profiles must hold the friend edge.
func (e *Engine) RemoveFriend(ctx context.Context, userID, friendID string) (*domain.Profile, error) {
	profile, friend, err := e.loadPair(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	if !friend.Friends.Has(userID) {
		return nil, domain.ErrFriendNotFound
	}

	profile, err = e.mutate(ctx, userID, profile, func(p *domain.Profile) (bool, error) {
		if !p.Friends.Remove(friendID) {
			return false, domain.ErrFriendNotFound
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return profile, e.completeCounterpart(ctx, domain.EdgeChange{
		OwnerID:    friendID,
		Collection: domain.CollectionFriends,
		Action:     domain.EdgeRemove,
		Edge:       domain.Edge{UserID: userID},
	})
}
