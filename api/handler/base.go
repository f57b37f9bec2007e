package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/social/api/transport"
	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/pkg/httpcontext"
	appLogger "github.com/fastygo/social/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondPage(ctx *fasthttp.RequestCtx, data interface{}, page transport.Page) {
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(data, page))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", string(ctx.Path())),
			zap.String("request_id", string(ctx.Response.Header.Peek("X-Request-ID"))),
			zap.Error(err),
		)
	}
	envelope := transport.NewError(code, err.Error(), nil)
	envelope.Reason = string(domain.ReasonOf(err))
	h.respondJSON(ctx, status, envelope)
}

// respondRelationship reports the primary profile of a two-profile mutation. A partially
// applied relationship is accepted: the counterpart side is already queued for repair.
func (h baseHandler) respondRelationship(ctx context.Context, rc *fasthttp.RequestCtx, profile *domain.Profile, err error) {
	if err == nil {
		h.respondSuccess(rc, http.StatusOK, profile)
		return
	}
	if domain.ReasonOf(err) == domain.ReasonPartialRelationship && profile != nil {
		appLogger.WithRequestID(ctx, h.logger).Warn("relationship accepted with pending repair", zap.Error(err))
		envelope := transport.NewSuccess(profile, map[string]string{"pending": err.Error()})
		envelope.Reason = string(domain.ReasonPartialRelationship)
		h.respondJSON(rc, http.StatusAccepted, envelope)
		return
	}
	h.respondError(rc, err)
}

// caller returns the authenticated user set by the auth middleware.
func (h baseHandler) caller(ctx *fasthttp.RequestCtx) (string, bool) {
	userID := httpcontext.UserID(ctx)
	if userID == "" {
		h.respondError(ctx, domain.ErrUnauthorized)
		return "", false
	}
	return userID, true
}

func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := transport.Decode(ctx.PostBody(), dst); err != nil {
		h.respondError(ctx, err)
		return false
	}
	return true
}

func pathParam(ctx *fasthttp.RequestCtx, name string) string {
	value, _ := ctx.UserValue(name).(string)
	return value
}

func paging(ctx *fasthttp.RequestCtx) transport.Page {
	args := ctx.QueryArgs()
	limit, _ := strconv.Atoi(string(args.Peek("limit")))
	offset, _ := strconv.Atoi(string(args.Peek("offset")))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return transport.Page{Limit: limit, Offset: offset}
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeUnavailable):
		return http.StatusServiceUnavailable, string(domain.ErrCodeUnavailable)
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, string(domain.ErrCodeUnavailable)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
