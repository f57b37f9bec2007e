package repository

import (
	"context"

	"github.com/fastygo/social/domain"
)

type ProfileRepository interface {
	GetByUser(ctx context.Context, userID string) (*domain.Profile, error)
	List(ctx context.Context, limit, offset int) ([]domain.Profile, error)
	Create(ctx context.Context, profile *domain.Profile) error
	Save(ctx context.Context, profile *domain.Profile) error
	Delete(ctx context.Context, profile *domain.Profile) error
}
