package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/yi-nology/itam/biz/service"
	"github.com/yi-nology/itam/pkg/config"
)

// AuthHandler serves login, logout and the current account.
type AuthHandler struct {
	service *service.Service
	cfg     config.AuthConfig
}

func NewAuthHandler(svc *service.Service, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{service: svc, cfg: cfg}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks credentials, sets the httpOnly token cookie and also returns
// the token for bearer use.
func (h *AuthHandler) Login(ctx context.Context, c *app.RequestContext) {
	var req loginRequest
	if err := c.BindAndValidate(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	result, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	maxAge := int(h.service.Tokens().TTL().Seconds())
	c.SetCookie(h.cfg.CookieName, result.Token, maxAge, "/", "", protocol.CookieSameSiteLaxMode, h.cfg.SecureCookie, true)
	respondData(c, result)
}

func (h *AuthHandler) Logout(ctx context.Context, c *app.RequestContext) {
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", protocol.CookieSameSiteLaxMode, h.cfg.SecureCookie, true)
	respondOK(c)
}

func (h *AuthHandler) Me(ctx context.Context, c *app.RequestContext) {
	admin, err := h.service.Me(ctx)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, admin)
}
