package repository

import (
	"context"

	"github.com/fastygo/social/domain"
)

type PostFilter struct {
	AuthorID string
	Limit    int
	Offset   int
}

type PostRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, filter PostFilter) ([]domain.Post, error)
	Create(ctx context.Context, post *domain.Post) error
	Save(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
}
