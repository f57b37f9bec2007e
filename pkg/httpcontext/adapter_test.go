package httpcontext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/social/pkg/logger"
)

func TestAttachCarriesRequestIDAndIdentity(t *testing.T) {
	var rc fasthttp.RequestCtx
	rc.Request.Header.Set("X-Request-ID", "req-42")
	rc.Request.Header.SetUserAgent("tests")
	SetIdentity(&rc, "user-1", "session-1")

	ctx, cancel := NewAdapter(time.Second).Attach(&rc)
	defer cancel()

	assert.Equal(t, "req-42", appLogger.RequestID(ctx))
	assert.Equal(t, "req-42", string(rc.Response.Header.Peek("X-Request-ID")))
	assert.Equal(t, "tests", ctx.Value(KeyUserAgent))
	assert.Equal(t, "user-1", ctx.Value(KeyUserID))
	assert.Equal(t, "session-1", ctx.Value(KeySessionID))

	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestAttachGeneratesRequestID(t *testing.T) {
	var rc fasthttp.RequestCtx
	ctx, cancel := NewAdapter(0).Attach(&rc)
	defer cancel()

	assert.NotEmpty(t, appLogger.RequestID(ctx))
	assert.Nil(t, ctx.Value(KeyUserID))
	assert.Empty(t, UserID(&rc))
}
