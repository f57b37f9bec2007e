package document

import (
	"context"
	"errors"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
)

type profileRepository struct {
	store repository.AggregateStore
}

// NewProfileRepository stores one profile document per account.
func NewProfileRepository(store repository.AggregateStore) repository.ProfileRepository {
	return &profileRepository{store: store}
}

func (r *profileRepository) GetByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	doc, err := r.store.FindByUniqueKey(ctx, domain.KindProfile, keyOwner+userID)
	if err != nil {
		return nil, notFound(err, domain.ErrProfileNotFound)
	}
	return decodeProfile(doc)
}

func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]domain.Profile, error) {
	docs, err := r.store.List(ctx, repository.AggregateFilter{
		Kind:   domain.KindProfile,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	profiles := make([]domain.Profile, 0, len(docs))
	for i := range docs {
		profile, err := decodeProfile(&docs[i])
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	doc, err := profileDocument(profile)
	if err != nil {
		return err
	}
	if err := r.store.Insert(ctx, doc); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return domain.WrapError(domain.ErrCodeConflict, "profile already exists", err)
		}
		return err
	}
	profile.SetMeta(doc)
	return nil
}

func (r *profileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	doc, err := profileDocument(profile)
	if err != nil {
		return err
	}
	if err := r.store.Update(ctx, doc); err != nil {
		return notFound(err, domain.ErrProfileNotFound)
	}
	profile.SetMeta(doc)
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.ID == "" {
		return domain.ErrInvalidPayload
	}
	return notFound(r.store.Delete(ctx, domain.KindProfile, profile.ID), domain.ErrProfileNotFound)
}

func profileDocument(profile *domain.Profile) (*domain.Aggregate, error) {
	if profile == nil || profile.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	doc, err := encode(domain.KindProfile, profile.Meta, profile)
	if err != nil {
		return nil, err
	}
	doc.OwnerID = profile.UserID
	doc.UniqueKey = keyOwner + profile.UserID
	return doc, nil
}

func decodeProfile(doc *domain.Aggregate) (*domain.Profile, error) {
	var profile domain.Profile
	if err := decode(doc, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
