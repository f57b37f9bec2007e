package group

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
	"github.com/fastygo/social/usecase"
)

// Fields are the editable attributes of a group.
type Fields struct {
	Name        string
	Code        string
	Description string
}

func (f Fields) normalized() (Fields, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Code = strings.TrimSpace(f.Code)
	f.Description = strings.TrimSpace(f.Description)
	if f.Name == "" || f.Code == "" {
		return f, domain.ErrInvalidPayload
	}
	return f, nil
}

type UseCase struct {
	groups   repository.GroupRepository
	accounts repository.AccountRepository
	policy   usecase.RetryPolicy
	logger   *zap.Logger
}

func New(groups repository.GroupRepository, accounts repository.AccountRepository, policy usecase.RetryPolicy, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		groups:   groups,
		accounts: accounts,
		policy:   policy,
		logger:   logger,
	}
}

// Create stores a new group whose creator is its first member and an admin.
func (uc *UseCase) Create(ctx context.Context, creatorID string, fields Fields) (*domain.Group, error) {
	fields, err := fields.normalized()
	if err != nil {
		return nil, err
	}
	if _, err := uc.accounts.GetByID(ctx, creatorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	group := &domain.Group{
		CreatorID:   creatorID,
		Name:        fields.Name,
		Code:        fields.Code,
		Description: fields.Description,
	}
	group.Members.Add(domain.Edge{UserID: creatorID, CreatedAt: now})
	group.Managers.Add(domain.Edge{UserID: creatorID, CreatedAt: now, Role: domain.RoleAdmin})

	if err := uc.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	uc.logger.Info("group created", zap.String("group_id", group.ID), zap.String("code", group.Code))
	return group, nil
}

func (uc *UseCase) Get(ctx context.Context, groupID string) (*domain.Group, error) {
	return uc.groups.GetByID(ctx, groupID)
}

func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]domain.Group, error) {
	return uc.groups.List(ctx, limit, offset)
}

// Update replaces name, code and description. Another group holding the new name or
// code fails the update with domain.ErrDuplicateCode.
func (uc *UseCase) Update(ctx context.Context, groupID string, fields Fields) (*domain.Group, error) {
	fields, err := fields.normalized()
	if err != nil {
		return nil, err
	}
	if err := uc.ensureUnique(ctx, groupID, fields); err != nil {
		return nil, err
	}

	return uc.mutate(ctx, groupID, func(g *domain.Group) (bool, error) {
		if g.Name == fields.Name && g.Code == fields.Code && g.Description == fields.Description {
			return false, nil
		}
		g.Name = fields.Name
		g.Code = fields.Code
		g.Description = fields.Description
		return true, nil
	})
}

func (uc *UseCase) Delete(ctx context.Context, groupID string) error {
	if err := uc.groups.Delete(ctx, groupID); err != nil {
		return err
	}
	uc.logger.Info("group deleted", zap.String("group_id", groupID))
	return nil
}

func (uc *UseCase) ensureUnique(ctx context.Context, groupID string, fields Fields) error {
	existing, err := uc.groups.GetByCode(ctx, fields.Code)
	switch {
	case err == nil && existing.ID != groupID:
		return domain.ErrDuplicateCode
	case err != nil && domain.ReasonOf(err) != domain.ReasonNotFound:
		return err
	}

	named, err := uc.groups.FindByName(ctx, fields.Name)
	if err != nil {
		return err
	}
	for _, g := range named {
		if g.ID != groupID {
			return domain.ErrDuplicateCode
		}
	}
	return nil
}

func (uc *UseCase) mutate(ctx context.Context, groupID string, fn func(g *domain.Group) (bool, error)) (*domain.Group, error) {
	return usecase.Mutate(ctx, uc.policy,
		func(ctx context.Context) (*domain.Group, error) { return uc.groups.GetByID(ctx, groupID) },
		uc.groups.Save,
		fn,
	)
}
