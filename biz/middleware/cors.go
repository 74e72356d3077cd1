package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/itam/pkg/config"
)

const corsMaxAge = "600"

// CORS answers preflight requests and decorates responses. AllowOrigin is
// "*" or a comma-separated allowlist. Browsers refuse "*" together with
// credentials, which the auth cookie needs, so in that case the request
// Origin is echoed back instead.
func CORS(cfg *config.CORSConfig) app.HandlerFunc {
	allowMethods := "GET,POST,PUT,PATCH,DELETE,OPTIONS"
	allowHeaders := "Authorization,Content-Type"
	var (
		origins     []string
		anyOrigin   = true
		credentials bool
	)

	if cfg != nil {
		if o := strings.TrimSpace(cfg.AllowOrigin); o != "" && o != "*" {
			anyOrigin = false
			for _, part := range strings.Split(o, ",") {
				if part = strings.TrimSpace(part); part != "" {
					origins = append(origins, part)
				}
			}
		}
		if cfg.AllowMethods != "" {
			allowMethods = cfg.AllowMethods
		}
		if cfg.AllowHeaders != "" {
			allowHeaders = cfg.AllowHeaders
		}
		credentials = cfg.AllowCredentials
	}

	allowed := func(origin string) bool {
		if anyOrigin {
			return true
		}
		for _, o := range origins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return func(ctx context.Context, c *app.RequestContext) {
		origin := string(c.GetHeader("Origin"))
		if origin != "" && allowed(origin) {
			h := &c.Response.Header
			if anyOrigin && !credentials {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			if credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Set("Access-Control-Max-Age", corsMaxAge)
		}

		if string(c.Request.Method()) == consts.MethodOptions {
			c.AbortWithStatus(consts.StatusNoContent)
			return
		}
		c.Next(ctx)
	}
}
