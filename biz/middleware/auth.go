package middleware

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/itam/biz/service"
	"github.com/yi-nology/itam/pkg/auth"
	"github.com/yi-nology/itam/pkg/common"
)

// principalKey exposes the principal on the RequestContext for the access log.
const principalKey = "principal"

// Authorizer decides whether an authenticated admin may proceed.
type Authorizer interface {
	Authorize(ctx context.Context, adminID uint, permission string) error
	AuthorizeSuperAdmin(ctx context.Context, adminID uint) error
}

// RequireAuth returns a middleware that enforces authentication. The token is
// read from "Authorization: Bearer" first and from the cookie second.
// Requests without a valid token are rejected with 401.
func RequireAuth(tokens *auth.TokenManager, cookieName string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		token := auth.ExtractToken(string(c.GetHeader("Authorization")), string(c.Cookie(cookieName)))
		if token == "" {
			abort(c, consts.StatusUnauthorized, "authentication required", "missing token")
			return
		}
		principal, err := tokens.Parse(token)
		if err != nil {
			hlog.CtxInfof(ctx, "[Auth] rejected token: %v", err)
			abort(c, consts.StatusUnauthorized, "authentication required", "invalid or expired token")
			return
		}

		c.Set(principalKey, principal)
		ctx = common.ContextWithPrincipal(ctx, principal)
		c.Next(ctx)
	}
}

// RequirePermission re-checks the authenticated admin against the database and
// requires the given permission. It must run after RequireAuth.
func RequirePermission(authz Authorizer, permission string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		id, ok := common.AdminIDFromContext(ctx)
		if !ok {
			abort(c, consts.StatusUnauthorized, "authentication required", "missing principal")
			return
		}
		if err := authz.Authorize(ctx, id, permission); err != nil {
			denied(ctx, c, err)
			return
		}
		c.Next(ctx)
	}
}

// RequireSuperAdmin allows only active SUPER_ADMIN accounts. It must run after RequireAuth.
func RequireSuperAdmin(authz Authorizer) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		id, ok := common.AdminIDFromContext(ctx)
		if !ok {
			abort(c, consts.StatusUnauthorized, "authentication required", "missing principal")
			return
		}
		if err := authz.AuthorizeSuperAdmin(ctx, id); err != nil {
			denied(ctx, c, err)
			return
		}
		c.Next(ctx)
	}
}

func denied(ctx context.Context, c *app.RequestContext, err error) {
	switch {
	case errors.Is(err, service.ErrAdminNotFound):
		abort(c, consts.StatusUnauthorized, "authentication required", err.Error())
	case errors.Is(err, service.ErrAdminInactive), errors.Is(err, service.ErrForbidden):
		abort(c, consts.StatusForbidden, "forbidden", err.Error())
	default:
		hlog.CtxErrorf(ctx, "[Auth] authorization check failed: %v", err)
		abort(c, consts.StatusInternalServerError, "internal server error", "authorization check failed")
	}
}

func abort(c *app.RequestContext, status int, errMsg, msg string) {
	c.JSON(status, common.CommonResponse{
		Code:  status,
		Error: errMsg,
		Msg:   msg,
	})
	c.Abort()
}
