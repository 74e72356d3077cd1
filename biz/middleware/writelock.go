package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/itam/pkg/lock"
)

// WriteLock returns a middleware slice that serialises the route through l.
// A nil locker (Redis disabled) returns nil so requests pass through without
// any locking overhead.
func WriteLock(l lock.Locker) []app.HandlerFunc {
	if l == nil {
		return nil
	}
	return []app.HandlerFunc{writeLockHandler(l)}
}

func writeLockHandler(l lock.Locker) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		// With only fails when the lock cannot be taken; the handler chain returns no error
		err := lock.With(ctx, l, func(ctx context.Context) error {
			c.Next(ctx)
			return nil
		})
		if err != nil {
			hlog.CtxWarnf(ctx, "[WriteLock] failed to acquire lock: %v", err)
			abort(c, consts.StatusServiceUnavailable, "service busy", "another run is in progress, please retry later")
		}
	}
}
