// Package engagement owns posts and their like, comment and share ledgers.
// Every ledger operation is a single-post load, check and save, retried on
// version conflicts, and returns the collection it changed.
package engagement

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
	"github.com/fastygo/social/usecase"
)

type Ledger struct {
	posts    repository.PostRepository
	accounts repository.AccountRepository
	policy   usecase.RetryPolicy
	logger   *zap.Logger
}

func New(posts repository.PostRepository, accounts repository.AccountRepository, policy usecase.RetryPolicy, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		posts:    posts,
		accounts: accounts,
		policy:   policy,
		logger:   logger,
	}
}

func (l *Ledger) Like(ctx context.Context, postID, userID string) ([]domain.Edge, error) {
	post, err := l.mutate(ctx, postID, func(p *domain.Post) (bool, error) {
		if p.Likes.Has(userID) {
			return false, domain.ErrAlreadyLiked
		}
		return p.Likes.Add(domain.Edge{UserID: userID, CreatedAt: time.Now().UTC()}), nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes.Edges(), nil
}

func (l *Ledger) Unlike(ctx context.Context, postID, userID string) ([]domain.Edge, error) {
	post, err := l.mutate(ctx, postID, func(p *domain.Post) (bool, error) {
		if !p.Likes.Remove(userID) {
			return false, domain.ErrNotLiked
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes.Edges(), nil
}

// AddComment prepends a freshly keyed comment carrying the author's display name and avatar.
func (l *Ledger) AddComment(ctx context.Context, postID, userID, text string) ([]domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrInvalidPayload
	}
	author, err := l.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		Name:      author.DisplayName(),
		Avatar:    author.Avatar,
		CreatedAt: time.Now().UTC(),
	}
	post, err := l.mutate(ctx, postID, func(p *domain.Post) (bool, error) {
		if p.FindComment(comment.ID) >= 0 {
			return false, nil
		}
		p.Comments = append([]domain.Comment{comment}, p.Comments...)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// RemoveComment deletes a comment; only its author may do so.
func (l *Ledger) RemoveComment(ctx context.Context, postID, commentID, userID string) ([]domain.Comment, error) {
	post, err := l.mutate(ctx, postID, func(p *domain.Post) (bool, error) {
		i := p.FindComment(commentID)
		if i < 0 {
			return false, domain.ErrCommentNotFound
		}
		if p.Comments[i].UserID != userID {
			return false, domain.ErrForbidden
		}
		p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

func (l *Ledger) Share(ctx context.Context, postID, userID string) ([]domain.Edge, error) {
	post, err := l.mutate(ctx, postID, func(p *domain.Post) (bool, error) {
		if p.Shares.Has(userID) {
			return false, domain.ErrAlreadyShared
		}
		return p.Shares.Add(domain.Edge{UserID: userID, CreatedAt: time.Now().UTC()}), nil
	})
	if err != nil {
		return nil, err
	}
	return post.Shares.Edges(), nil
}

func (l *Ledger) Unshare(ctx context.Context, postID, userID string) ([]domain.Edge, error) {
	post, err := l.mutate(ctx, postID, func(p *domain.Post) (bool, error) {
		if !p.Shares.Remove(userID) {
			return false, domain.ErrNotShared
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return post.Shares.Edges(), nil
}

func (l *Ledger) mutate(ctx context.Context, postID string, fn func(p *domain.Post) (bool, error)) (*domain.Post, error) {
	if postID == "" {
		return nil, domain.ErrInvalidPayload
	}
	return usecase.Mutate(ctx, l.policy,
		func(ctx context.Context) (*domain.Post, error) { return l.posts.GetByID(ctx, postID) },
		l.posts.Save,
		fn,
	)
}
