package document

import (
	"context"
	"errors"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
)

type groupRepository struct {
	store repository.AggregateStore
}

// NewGroupRepository stores groups keyed uniquely by code.
// A code collision on create or save is reported as domain.ErrDuplicateCode.
func NewGroupRepository(store repository.AggregateStore) repository.GroupRepository {
	return &groupRepository{store: store}
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	doc, err := r.store.Get(ctx, domain.KindGroup, id)
	if err != nil {
		return nil, notFound(err, domain.ErrGroupNotFound)
	}
	return decodeGroup(doc)
}

func (r *groupRepository) GetByCode(ctx context.Context, code string) (*domain.Group, error) {
	doc, err := r.store.FindByUniqueKey(ctx, domain.KindGroup, keyCode+code)
	if err != nil {
		return nil, notFound(err, domain.ErrGroupNotFound)
	}
	return decodeGroup(doc)
}

func (r *groupRepository) FindByName(ctx context.Context, name string) ([]domain.Group, error) {
	return r.list(ctx, repository.AggregateFilter{
		Kind:       domain.KindGroup,
		LabelKeys:  []string{labelName},
		LabelValue: name,
	})
}

func (r *groupRepository) List(ctx context.Context, limit, offset int) ([]domain.Group, error) {
	return r.list(ctx, repository.AggregateFilter{Kind: domain.KindGroup, Limit: limit, Offset: offset})
}

func (r *groupRepository) Create(ctx context.Context, group *domain.Group) error {
	doc, err := groupDocument(group)
	if err != nil {
		return err
	}
	if err := r.store.Insert(ctx, doc); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return domain.ErrDuplicateCode
		}
		return err
	}
	group.SetMeta(doc)
	return nil
}

func (r *groupRepository) Save(ctx context.Context, group *domain.Group) error {
	doc, err := groupDocument(group)
	if err != nil {
		return err
	}
	if err := r.store.Update(ctx, doc); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return domain.ErrDuplicateCode
		}
		return notFound(err, domain.ErrGroupNotFound)
	}
	group.SetMeta(doc)
	return nil
}

func (r *groupRepository) Delete(ctx context.Context, id string) error {
	return notFound(r.store.Delete(ctx, domain.KindGroup, id), domain.ErrGroupNotFound)
}

func (r *groupRepository) list(ctx context.Context, filter repository.AggregateFilter) ([]domain.Group, error) {
	docs, err := r.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	groups := make([]domain.Group, 0, len(docs))
	for i := range docs {
		group, err := decodeGroup(&docs[i])
		if err != nil {
			return nil, err
		}
		groups = append(groups, *group)
	}
	return groups, nil
}

func groupDocument(group *domain.Group) (*domain.Aggregate, error) {
	if group == nil || group.Code == "" {
		return nil, domain.ErrInvalidPayload
	}
	doc, err := encode(domain.KindGroup, group.Meta, group)
	if err != nil {
		return nil, err
	}
	doc.OwnerID = group.CreatorID
	doc.UniqueKey = keyCode + group.Code
	doc.Labels = map[string]string{
		labelName:    group.Name,
		labelCreator: group.CreatorID,
	}
	return doc, nil
}

func decodeGroup(doc *domain.Aggregate) (*domain.Group, error) {
	var group domain.Group
	if err := decode(doc, &group); err != nil {
		return nil, err
	}
	return &group, nil
}
