package handler

import (
	"context"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/pkg/httpcontext"
	"github.com/fastygo/social/usecase/relationship"
)

// RelationshipHandler exposes follow and friend operations of the caller towards {id}.
type RelationshipHandler struct {
	baseHandler
	engine *relationship.Engine
}

func NewRelationshipHandler(engine *relationship.Engine, adapter *httpcontext.Adapter, logger *zap.Logger) *RelationshipHandler {
	return &RelationshipHandler{
		baseHandler: newBaseHandler(adapter, logger),
		engine:      engine,
	}
}

type relationshipOp func(ctx context.Context, callerID, otherID string) (*domain.Profile, error)

func (h *RelationshipHandler) run(ctx *fasthttp.RequestCtx, op relationshipOp) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	profile, err := op(stdCtx, userID, pathParam(ctx, "id"))
	h.respondRelationship(stdCtx, ctx, profile, err)
}

// @Summary Follow a user
// @Tags relationships
// @Router /api/v1/profile/following/{id} [post]
func (h *RelationshipHandler) Follow(ctx *fasthttp.RequestCtx) {
	h.run(ctx, h.engine.Follow)
}

// @Summary Unfollow a user
// @Tags relationships
// @Router /api/v1/profile/following/{id} [delete]
func (h *RelationshipHandler) Unfollow(ctx *fasthttp.RequestCtx) {
	h.run(ctx, h.engine.Unfollow)
}

// @Summary Send a friend request
// @Tags relationships
// @Router /api/v1/profile/friends/{id} [post]
func (h *RelationshipHandler) RequestFriend(ctx *fasthttp.RequestCtx) {
	h.run(ctx, h.engine.RequestFriend)
}

// @Summary Accept a friend request from {id}
// @Tags relationships
// @Router /api/v1/profile/friends/{id} [put]
func (h *RelationshipHandler) AcceptFriend(ctx *fasthttp.RequestCtx) {
	h.run(ctx, h.engine.AcceptFriend)
}

// @Summary Remove a friend
// @Tags relationships
// @Router /api/v1/profile/friends/{id} [delete]
func (h *RelationshipHandler) RemoveFriend(ctx *fasthttp.RequestCtx) {
	h.run(ctx, h.engine.RemoveFriend)
}

// @Summary Reject a friend request from {id}
// @Tags relationships
// @Router /api/v1/profile/friend-requests/{id} [delete]
func (h *RelationshipHandler) RejectFriend(ctx *fasthttp.RequestCtx) {
	h.run(ctx, h.engine.RejectFriend)
}

// @Summary Cancel a friend request sent to {id}
// @Tags relationships
// @Router /api/v1/profile/friend-requests/sent/{id} [delete]
func (h *RelationshipHandler) CancelRequest(ctx *fasthttp.RequestCtx) {
	h.run(ctx, h.engine.CancelRequest)
}
