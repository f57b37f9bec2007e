package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/social/api/transport"
	"github.com/fastygo/social/pkg/httpcontext"
	conversationUC "github.com/fastygo/social/usecase/conversation"
)

type ConversationHandler struct {
	baseHandler
	uc *conversationUC.UseCase
}

func NewConversationHandler(uc *conversationUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Send a message
// @Tags conversations
// @Router /api/v1/conversations [post]
func (h *ConversationHandler) Send(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}
	var req transport.MessageRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	conversation, err := h.uc.SendMessage(stdCtx, conversationUC.Outgoing{
		From:           userID,
		To:             req.To,
		Text:           req.Text,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, conversation)
}

// @Summary List own conversations, most recent first
// @Tags conversations
// @Router /api/v1/conversations [get]
func (h *ConversationHandler) List(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	conversations, err := h.uc.ListConversations(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, conversations)
}

// @Summary Get a conversation
// @Tags conversations
// @Router /api/v1/conversations/{id} [get]
func (h *ConversationHandler) Get(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	conversation, err := h.uc.GetConversation(stdCtx, pathParam(ctx, "id"), userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, conversation)
}

// @Summary Mark messages addressed to the caller as read
// @Tags conversations
// @Router /api/v1/conversations/{id}/read [put]
func (h *ConversationHandler) MarkRead(ctx *fasthttp.RequestCtx) {
	userID, ok := h.caller(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	conversation, err := h.uc.MarkRead(stdCtx, pathParam(ctx, "id"), userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, conversation)
}
