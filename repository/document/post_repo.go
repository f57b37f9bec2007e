package document

import (
	"context"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
)

type postRepository struct {
	store repository.AggregateStore
}

func NewPostRepository(store repository.AggregateStore) repository.PostRepository {
	return &postRepository{store: store}
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	doc, err := r.store.Get(ctx, domain.KindPost, id)
	if err != nil {
		return nil, notFound(err, domain.ErrPostNotFound)
	}
	return decodePost(doc)
}

func (r *postRepository) List(ctx context.Context, filter repository.PostFilter) ([]domain.Post, error) {
	docs, err := r.store.List(ctx, repository.AggregateFilter{
		Kind:    domain.KindPost,
		OwnerID: filter.AuthorID,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	posts := make([]domain.Post, 0, len(docs))
	for i := range docs {
		post, err := decodePost(&docs[i])
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, nil
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	doc, err := postDocument(post)
	if err != nil {
		return err
	}
	if err := r.store.Insert(ctx, doc); err != nil {
		return err
	}
	post.SetMeta(doc)
	return nil
}

func (r *postRepository) Save(ctx context.Context, post *domain.Post) error {
	doc, err := postDocument(post)
	if err != nil {
		return err
	}
	if err := r.store.Update(ctx, doc); err != nil {
		return notFound(err, domain.ErrPostNotFound)
	}
	post.SetMeta(doc)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return notFound(r.store.Delete(ctx, domain.KindPost, id), domain.ErrPostNotFound)
}

func postDocument(post *domain.Post) (*domain.Aggregate, error) {
	if post == nil || post.AuthorID == "" {
		return nil, domain.ErrInvalidPayload
	}
	doc, err := encode(domain.KindPost, post.Meta, post)
	if err != nil {
		return nil, err
	}
	doc.OwnerID = post.AuthorID
	return doc, nil
}

func decodePost(doc *domain.Aggregate) (*domain.Post, error) {
	var post domain.Post
	if err := decode(doc, &post); err != nil {
		return nil, err
	}
	return &post, nil
}
