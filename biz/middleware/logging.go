package middleware

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/yi-nology/itam/pkg/common"
)

// Logging writes one access line per request. Server errors log at error
// level and client errors at warn; /ping is not logged.
func Logging() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		c.Next(ctx)

		path := string(c.Request.URI().Path())
		if path == "/ping" {
			return
		}

		// principal is set on the context passed down the chain, not ours
		actor := "-"
		if p, ok := c.Get(principalKey); ok {
			if principal, ok := p.(*common.Principal); ok && principal != nil {
				actor = principal.Username
			}
		}

		status := c.Response.StatusCode()
		format := "[%s] %s %s %s %d %v"
		args := []any{c.ClientIP(), actor, c.Request.Method(), path, status, time.Since(start)}
		switch {
		case status >= 500:
			hlog.CtxErrorf(ctx, format, args...)
		case status >= 400:
			hlog.CtxWarnf(ctx, format, args...)
		default:
			hlog.CtxInfof(ctx, format, args...)
		}
	}
}
