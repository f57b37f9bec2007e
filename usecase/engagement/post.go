package engagement

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
)

// CreatePost stores a post with the author's display name and avatar copied in.
func (l *Ledger) CreatePost(ctx context.Context, authorID, text string) (*domain.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrInvalidPayload
	}
	author, err := l.accounts.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		AuthorID: authorID,
		Text:     text,
		Name:     author.DisplayName(),
		Avatar:   author.Avatar,
	}
	if err := l.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	l.logger.Debug("post created", zap.String("post_id", post.ID), zap.String("author_id", authorID))
	return post, nil
}

func (l *Ledger) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	return l.posts.GetByID(ctx, postID)
}

func (l *Ledger) ListPosts(ctx context.Context, filter repository.PostFilter) ([]domain.Post, error) {
	return l.posts.List(ctx, filter)
}

// UpdatePost replaces the text of a post owned by callerID.
func (l *Ledger) UpdatePost(ctx context.Context, postID, callerID, text string) (*domain.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrInvalidPayload
	}
	return l.mutate(ctx, postID, func(p *domain.Post) (bool, error) {
		if p.AuthorID != callerID {
			return false, domain.ErrForbidden
		}
		if p.Text == text {
			return false, nil
		}
		p.Text = text
		return true, nil
	})
}

// DeletePost removes a post owned by callerID.
func (l *Ledger) DeletePost(ctx context.Context, postID, callerID string) error {
	post, err := l.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != callerID {
		return domain.ErrForbidden
	}
	return l.posts.Delete(ctx, postID)
}
