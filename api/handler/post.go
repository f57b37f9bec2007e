package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/social/api/transport"
	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/pkg/httpcontext"
	"github.com/fastygo/social/repository"
	"github.com/fastygo/social/usecase/engagement"
)

type PostHandler struct {
	baseHandler
	ledger *engagement.Ledger
}

func NewPostHandler(ledger *engagement.Ledger, adapter *httpcontext.Adapter, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		baseHandler: newBaseHandler(adapter, logger),
		ledger:      ledger,
	}
}

// @Summary Create a post
// @Tags posts
// @Router /api/v1/posts [post]
func (h *PostHandler) Create(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}
	var req transport.PostRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	post, err := h.ledger.CreatePost(stdCtx, userID, req.Text)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, post)
}

// @Summary List posts, newest first
// @Tags posts
// @Param author query string false "author id"
// @Router /api/v1/posts [get]
func (h *PostHandler) List(ctx *fasthttp.RequestCtx) {
	page := paging(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	posts, err := h.ledger.ListPosts(stdCtx, repository.PostFilter{
		AuthorID: string(ctx.QueryArgs().Peek("author")),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	page.Count = len(posts)
	h.respondPage(ctx, posts, page)
}

// @Summary Get a post
// @Tags posts
// @Router /api/v1/posts/{id} [get]
func (h *PostHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	post, err := h.ledger.GetPost(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, post)
}

// @Summary Edit own post
// @Tags posts
// @Router /api/v1/posts/{id} [put]
func (h *PostHandler) Update(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}
	var req transport.PostRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	post, err := h.ledger.UpdatePost(stdCtx, pathParam(ctx, "id"), userID, req.Text)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, post)
}

// @Summary Delete own post
// @Tags posts
// @Router /api/v1/posts/{id} [delete]
func (h *PostHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	postID := pathParam(ctx, "id")
	if err := h.ledger.DeletePost(stdCtx, postID, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"deleted": postID})
}

type edgeOp func(ctx context.Context, postID, userID string) ([]domain.Edge, error)

func (h *PostHandler) edges(ctx *fasthttp.RequestCtx, op edgeOp) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	edges, err := op(stdCtx, pathParam(ctx, "id"), userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, edges)
}

// @Summary Like a post
// @Tags engagement
// @Router /api/v1/posts/{id}/like [post]
func (h *PostHandler) Like(ctx *fasthttp.RequestCtx) { h.edges(ctx, h.ledger.Like) }

// @Summary Unlike a post
// @Tags engagement
// @Router /api/v1/posts/{id}/like [delete]
func (h *PostHandler) Unlike(ctx *fasthttp.RequestCtx) { h.edges(ctx, h.ledger.Unlike) }

// @Summary Share a post
// @Tags engagement
// @Router /api/v1/posts/{id}/shares [post]
func (h *PostHandler) Share(ctx *fasthttp.RequestCtx) { h.edges(ctx, h.ledger.Share) }

// @Summary Unshare a post
// @Tags engagement
// @Router /api/v1/posts/{id}/shares [delete]
func (h *PostHandler) Unshare(ctx *fasthttp.RequestCtx) { h.edges(ctx, h.ledger.Unshare) }

// @Summary Comment on a post
// @Tags engagement
// @Router /api/v1/posts/{id}/comments [post]
func (h *PostHandler) AddComment(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}
	var req transport.CommentRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	comments, err := h.ledger.AddComment(stdCtx, pathParam(ctx, "id"), userID, req.Text)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, comments)
}

// @Summary Delete own comment
// @Tags engagement
// @Router /api/v1/posts/{id}/comments/{comment_id} [delete]
func (h *PostHandler) RemoveComment(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	comments, err := h.ledger.RemoveComment(stdCtx, pathParam(ctx, "id"), pathParam(ctx, "comment_id"), userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, comments)
}
