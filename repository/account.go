package repository

import (
	"context"

	"github.com/fastygo/social/domain"
)

// AccountRepository is the identity store.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetMany(ctx context.Context, ids []string) ([]domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	Save(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id string) error
}
