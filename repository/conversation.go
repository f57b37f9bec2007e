package repository

import (
	"context"

	"github.com/fastygo/social/domain"
)

type ConversationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	// FindByPair returns the conversation between a and b regardless of participant order.
	FindByPair(ctx context.Context, a, b string) (*domain.Conversation, error)
	// ListByParticipant returns conversations involving userID, most recent first.
	ListByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error)
	Create(ctx context.Context, conversation *domain.Conversation) error
	Save(ctx context.Context, conversation *domain.Conversation) error
}
