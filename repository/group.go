package repository

import (
	"context"

	"github.com/fastygo/social/domain"
)

type GroupRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	GetByCode(ctx context.Context, code string) (*domain.Group, error)
	FindByName(ctx context.Context, name string) ([]domain.Group, error)
	List(ctx context.Context, limit, offset int) ([]domain.Group, error)
	Create(ctx context.Context, group *domain.Group) error
	Save(ctx context.Context, group *domain.Group) error
	Delete(ctx context.Context, id string) error
}
