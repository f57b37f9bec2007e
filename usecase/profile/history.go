package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/usecase"
)

// AddExperience prepends a work history entry under a fresh id.
func (uc *UseCase) AddExperience(ctx context.Context, userID string, entry domain.Experience) (*domain.Profile, error) {
	if entry.Title == "" || entry.Company == "" {
		return nil, domain.ErrInvalidPayload
	}
	entry.ID = uuid.NewString()
	return uc.mutate(ctx, userID, func(p *domain.Profile) (bool, error) {
		p.Experience = append([]domain.Experience{entry}, p.Experience...)
		return true, nil
	})
}

func (uc *UseCase) RemoveExperience(ctx context.Context, userID, entryID string) (*domain.Profile, error) {
	return uc.mutate(ctx, userID, func(p *domain.Profile) (bool, error) {
		if !p.RemoveExperience(entryID) {
			return false, domain.ErrEntryNotFound
		}
		return true, nil
	})
}

// AddEducation prepends an education entry under a fresh id.
func (uc *UseCase) AddEducation(ctx context.Context, userID string, entry domain.Education) (*domain.Profile, error) {
	if entry.School == "" || entry.Degree == "" {
		return nil, domain.ErrInvalidPayload
	}
	entry.ID = uuid.NewString()
	return uc.mutate(ctx, userID, func(p *domain.Profile) (bool, error) {
		p.Education = append([]domain.Education{entry}, p.Education...)
		return true, nil
	})
}

func (uc *UseCase) RemoveEducation(ctx context.Context, userID, entryID string) (*domain.Profile, error) {
	return uc.mutate(ctx, userID, func(p *domain.Profile) (bool, error) {
		if !p.RemoveEducation(entryID) {
			return false, domain.ErrEntryNotFound
		}
		return true, nil
	})
}

func (uc *UseCase) mutate(ctx context.Context, userID string, fn func(p *domain.Profile) (bool, error)) (*domain.Profile, error) {
	return usecase.Mutate(ctx, uc.policy,
		func(ctx context.Context) (*domain.Profile, error) { return uc.profiles.GetByUser(ctx, userID) },
		uc.profiles.Save,
		fn,
	)
}
