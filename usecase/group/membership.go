package group

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/social/domain"
)

// RequestJoin files a pending membership request for userID.
func (uc *UseCase) RequestJoin(ctx context.Context, groupID, userID string) (*domain.Group, error) {
	if _, err := uc.accounts.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, groupID, func(g *domain.Group) (bool, error) {
		if g.MemberRequests.Has(userID) {
			return false, domain.ErrAlreadyRequested
		}
		if g.Members.Has(userID) {
			return false, domain.ErrAlreadyMember
		}
		return g.MemberRequests.Add(domain.Edge{UserID: userID, CreatedAt: time.Now().UTC()}), nil
	})
}

// AcceptJoin moves a pending request into the member list.
func (uc *UseCase) AcceptJoin(ctx context.Context, groupID, userID string) (*domain.Group, error) {
	if _, err := uc.accounts.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, groupID, func(g *domain.Group) (bool, error) {
		if !g.MemberRequests.Remove(userID) {
			return false, domain.ErrNoSuchRequest
		}
		g.Members.Add(domain.Edge{UserID: userID, CreatedAt: time.Now().UTC()})
		return true, nil
	})
}

// RejectJoin drops a pending request.
func (uc *UseCase) RejectJoin(ctx context.Context, groupID, userID string) (*domain.Group, error) {
	return uc.mutate(ctx, groupID, func(g *domain.Group) (bool, error) {
		if !g.MemberRequests.Remove(userID) {
			return false, domain.ErrNoSuchRequest
		}
		return true, nil
	})
}

// SetManager grants role to a member. An empty role means admin.
func (uc *UseCase) SetManager(ctx context.Context, groupID, userID string, role domain.Role) (*domain.Group, error) {
	if role == "" {
		role = domain.RoleAdmin
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidPayload
	}
	if _, err := uc.accounts.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, groupID, func(g *domain.Group) (bool, error) {
		if !g.Members.Has(userID) {
			return false, domain.ErrNotAMember
		}
		if g.Managers.Has(userID) {
			return false, domain.ErrAlreadyManager
		}
		return g.Managers.Add(domain.Edge{UserID: userID, CreatedAt: time.Now().UTC(), Role: role}), nil
	})
}

// RemoveManager revokes every manager role userID holds.
func (uc *UseCase) RemoveManager(ctx context.Context, groupID, userID string) (*domain.Group, error) {
	return uc.mutate(ctx, groupID, func(g *domain.Group) (bool, error) {
		if !g.Members.Has(userID) {
			return false, domain.ErrNotAMember
		}
		if !g.Managers.Remove(userID) {
			return false, domain.ErrNotAManager
		}
		return true, nil
	})
}

// RemoveMember drops userID from the group along with any manager role.
// The last member cannot be removed.
func (uc *UseCase) RemoveMember(ctx context.Context, groupID, userID string) (*domain.Group, error) {
	group, err := uc.mutate(ctx, groupID, func(g *domain.Group) (bool, error) {
		if !g.Members.Has(userID) {
			return false, domain.ErrNotAMember
		}
		if g.Members.Len() == 1 {
			return false, domain.ErrLastMember
		}
		g.Members.Remove(userID)
		g.Managers.Remove(userID)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("member removed", zap.String("group_id", groupID), zap.String("user_id", userID))
	return group, nil
}

// ListMembers resolves the member edges against the identity store, newest member first.
// Accounts deleted since joining are skipped.
func (uc *UseCase) ListMembers(ctx context.Context, groupID string) ([]domain.Account, error) {
	group, err := uc.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	accounts, err := uc.accounts.GetMany(ctx, group.Members.IDs())
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		accounts[i].PasswordHash = ""
	}
	return accounts, nil
}
