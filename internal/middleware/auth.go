package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/social/api/transport"
	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/pkg/httpcontext"
	"github.com/fastygo/social/pkg/token"
)

// TokenParser verifies an access token.
type TokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

// SessionLookup confirms that the session behind a token is still live.
type SessionLookup interface {
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
}

// JWTAuth admits requests carrying a valid bearer token whose session has not been revoked.
// A nil sessions skips the revocation check.
func JWTAuth(tokens TokenParser, sessions SessionLookup, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				unauthorized(ctx, "missing bearer token")
				return
			}

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				logger.Warn("invalid jwt token", zap.Error(err))
				unauthorized(ctx, "invalid token")
				return
			}

			if sessions != nil {
				lookupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				session, err := sessions.GetSession(lookupCtx, claims.SessionID)
				cancel()
				if err != nil || session.UserID != claims.UserID {
					logger.Debug("session rejected", zap.String("session_id", claims.SessionID), zap.Error(err))
					unauthorized(ctx, "session expired")
					return
				}
			}

			httpcontext.SetIdentity(ctx, claims.UserID, claims.SessionID)
			next(ctx)
		}
	}
}

func unauthorized(ctx *fasthttp.RequestCtx, message string) {
	body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeUnauthorized), message, nil))
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.SetBody(body)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
