package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/social/api/transport"
	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/pkg/httpcontext"
	groupUC "github.com/fastygo/social/usecase/group"
)

type GroupHandler struct {
	baseHandler
	uc *groupUC.UseCase
}

func NewGroupHandler(uc *groupUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *GroupHandler {
	return &GroupHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create a group
// @Tags groups
// @Router /api/v1/groups [post]
func (h *GroupHandler) Create(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}
	var req transport.GroupRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	group, err := h.uc.Create(stdCtx, userID, groupUC.Fields{Name: req.Name, Code: req.Code, Description: req.Description})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, group)
}

// @Summary List groups
// @Tags groups
// @Router /api/v1/groups [get]
func (h *GroupHandler) List(ctx *fasthttp.RequestCtx) {
	page := paging(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	groups, err := h.uc.List(stdCtx, page.Limit, page.Offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	page.Count = len(groups)
	h.respondPage(ctx, groups, page)
}

// @Summary Get a group
// @Tags groups
// @Router /api/v1/groups/{id} [get]
func (h *GroupHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	group, err := h.uc.Get(stdCtx, pathParam(ctx, "id"))
	h.respondGroup(ctx, group, err)
}

// @Summary Update a group
// @Tags groups
// @Router /api/v1/groups/{id} [put]
func (h *GroupHandler) Update(ctx *fasthttp.RequestCtx) {
	var req transport.GroupRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	group, err := h.uc.Update(stdCtx, pathParam(ctx, "id"), groupUC.Fields{Name: req.Name, Code: req.Code, Description: req.Description})
	h.respondGroup(ctx, group, err)
}

// @Summary Delete a group
// @Tags groups
// @Router /api/v1/groups/{id} [delete]
func (h *GroupHandler) Delete(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	groupID := pathParam(ctx, "id")
	if err := h.uc.Delete(stdCtx, groupID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"deleted": groupID})
}

// @Summary Ask to join a group
// @Tags groups
// @Router /api/v1/groups/{id}/join [post]
func (h *GroupHandler) RequestJoin(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	group, err := h.uc.RequestJoin(stdCtx, pathParam(ctx, "id"), userID)
	h.respondGroup(ctx, group, err)
}

// @Summary Accept a join request
// @Tags groups
// @Router /api/v1/groups/{id}/requests/{user_id} [put]
func (h *GroupHandler) AcceptJoin(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	group, err := h.uc.AcceptJoin(stdCtx, pathParam(ctx, "id"), pathParam(ctx, "user_id"))
	h.respondGroup(ctx, group, err)
}

// @Summary Reject a join request
// @Tags groups
// @Router /api/v1/groups/{id}/requests/{user_id} [delete]
func (h *GroupHandler) RejectJoin(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	group, err := h.uc.RejectJoin(stdCtx, pathParam(ctx, "id"), pathParam(ctx, "user_id"))
	h.respondGroup(ctx, group, err)
}

// @Summary List group members
// @Tags groups
// @Router /api/v1/groups/{id}/members [get]
func (h *GroupHandler) Members(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	members, err := h.uc.ListMembers(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, members)
}

// @Summary Remove a member
// @Tags groups
// @Router /api/v1/groups/{id}/members/{user_id} [delete]
func (h *GroupHandler) RemoveMember(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	group, err := h.uc.RemoveMember(stdCtx, pathParam(ctx, "id"), pathParam(ctx, "user_id"))
	h.respondGroup(ctx, group, err)
}

// @Summary Grant a manager role
// @Tags groups
// @Router /api/v1/groups/{id}/managers [post]
func (h *GroupHandler) SetManager(ctx *fasthttp.RequestCtx) {
	var req transport.ManagerRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	group, err := h.uc.SetManager(stdCtx, pathParam(ctx, "id"), req.UserID, domain.Role(req.Role))
	h.respondGroup(ctx, group, err)
}

// @Summary Revoke a manager role
// @Tags groups
// @Router /api/v1/groups/{id}/managers/{user_id} [delete]
func (h *GroupHandler) RemoveManager(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	group, err := h.uc.RemoveManager(stdCtx, pathParam(ctx, "id"), pathParam(ctx, "user_id"))
	h.respondGroup(ctx, group, err)
}

func (h *GroupHandler) respondGroup(ctx *fasthttp.RequestCtx, group *domain.Group, err error) {
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, group)
}
