package middleware

import (
	"context"
	"runtime/debug"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Recovery turns a handler panic into a 500 envelope. The panic value and
// stack go to the log only; clients never see them.
func Recovery() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if r := recover(); r != nil {
				hlog.CtxErrorf(ctx, "[Recovery] %s %s panicked: %v\n%s",
					c.Request.Method(), c.Request.URI().Path(), r, debug.Stack())
				abort(c, consts.StatusInternalServerError, "internal server error", "unexpected server error")
			}
		}()

		c.Next(ctx)
	}
}
