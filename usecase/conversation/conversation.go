package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
	"github.com/fastygo/social/usecase"
)

// Outgoing is a message to deliver. ConversationID is optional; without it the
// conversation for the sender and recipient pair is found or started.
type Outgoing struct {
	From           string
	To             string
	Text           string
	ConversationID string
}

type UseCase struct {
	conversations repository.ConversationRepository
	accounts      repository.AccountRepository
	policy        usecase.RetryPolicy
	logger        *zap.Logger
}

func New(conversations repository.ConversationRepository, accounts repository.AccountRepository, policy usecase.RetryPolicy, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		conversations: conversations,
		accounts:      accounts,
		policy:        policy,
		logger:        logger,
	}
}

// SendMessage appends a message to the conversation between msg.From and msg.To.
func (uc *UseCase) SendMessage(ctx context.Context, msg Outgoing) (*domain.Conversation, error) {
	msg.Text = strings.TrimSpace(msg.Text)
	if msg.From == "" || msg.To == "" || msg.Text == "" {
		return nil, domain.ErrInvalidPayload
	}
	if msg.From == msg.To {
		return nil, domain.ErrSelfRelation
	}
	if err := uc.ensureAccounts(ctx, msg.From, msg.To); err != nil {
		return nil, err
	}

	message := domain.Message{
		ID:   uuid.NewString(),
		From: msg.From,
		To:   msg.To,
		Text: msg.Text,
		Date: time.Now().UTC(),
	}

	if msg.ConversationID != "" {
		return uc.mutate(ctx, msg.ConversationID, func(c *domain.Conversation) (bool, error) {
			if !c.Connects(msg.From, msg.To) {
				return false, domain.ErrForbidden
			}
			c.Append(message)
			return true, nil
		})
	}

	var conversation *domain.Conversation
	err := usecase.RetryOnConflict(ctx, uc.policy, func() error {
		existing, err := uc.conversations.FindByPair(ctx, msg.From, msg.To)
		switch {
		case err == nil:
			existing.Append(message)
			if err := uc.conversations.Save(ctx, existing); err != nil {
				return err
			}
			conversation = existing
			return nil
		case !errors.Is(err, domain.ErrConversationNotFound):
			return err
		}

		started := &domain.Conversation{Participant1: msg.From, Participant2: msg.To}
		started.Append(message)
		if err := uc.conversations.Create(ctx, started); err != nil {
			if errors.Is(err, domain.ErrDuplicateKey) {
				// lost the race to start the conversation; append to the winner's
				return domain.ErrVersionConflict
			}
			return err
		}
		uc.logger.Debug("conversation started", zap.String("conversation_id", started.ID))
		conversation = started
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conversation, nil
}

// ListConversations returns the user's conversations, most recently active first.
func (uc *UseCase) ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	if _, err := uc.accounts.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return uc.conversations.ListByParticipant(ctx, userID)
}

// GetConversation returns a conversation the user takes part in.
func (uc *UseCase) GetConversation(ctx context.Context, conversationID, userID string) (*domain.Conversation, error) {
	conversation, err := uc.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, domain.ErrForbidden
	}
	return conversation, nil
}

// MarkRead flags every message addressed to userID as read.
func (uc *UseCase) MarkRead(ctx context.Context, conversationID, userID string) (*domain.Conversation, error) {
	return uc.mutate(ctx, conversationID, func(c *domain.Conversation) (bool, error) {
		if !c.HasParticipant(userID) {
			return false, domain.ErrForbidden
		}
		changed := false
		for i := range c.Messages {
			if c.Messages[i].To == userID && !c.Messages[i].Read {
				c.Messages[i].Read = true
				changed = true
			}
		}
		return changed, nil
	})
}

func (uc *UseCase) ensureAccounts(ctx context.Context, ids ...string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			_, err := uc.accounts.GetByID(gctx, id)
			return err
		})
	}
	return g.Wait()
}

func (uc *UseCase) mutate(ctx context.Context, conversationID string, fn func(c *domain.Conversation) (bool, error)) (*domain.Conversation, error) {
	return usecase.Mutate(ctx, uc.policy,
		func(ctx context.Context) (*domain.Conversation, error) {
			return uc.conversations.GetByID(ctx, conversationID)
		},
		uc.conversations.Save,
		fn,
	)
}
