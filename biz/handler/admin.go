package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/yi-nology/itam/biz/service"
)

// AdminHandler manages operator accounts. Routes are super-admin only.
type AdminHandler struct {
	service *service.Service
}

func NewAdminHandler(svc *service.Service) *AdminHandler {
	return &AdminHandler{service: svc}
}

func (h *AdminHandler) List(ctx context.Context, c *app.RequestContext) {
	admins, err := h.service.ListAdmins(ctx)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, map[string]any{"items": admins})
}

func (h *AdminHandler) Create(ctx context.Context, c *app.RequestContext) {
	var input service.AdminInput
	if err := c.BindAndValidate(&input); err != nil {
		writeBadRequest(c, err)
		return
	}
	admin, err := h.service.CreateAdmin(ctx, &input)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, admin)
}

func (h *AdminHandler) Update(ctx context.Context, c *app.RequestContext) {
	id, err := parseID(c, "id")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	var patch service.AdminPatch
	if err := c.BindAndValidate(&patch); err != nil {
		writeBadRequest(c, err)
		return
	}
	admin, err := h.service.UpdateAdmin(ctx, id, &patch)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, admin)
}

type permissionRequest struct {
	Permission string `json:"permission"`
	Enabled    bool   `json:"enabled"`
}

// SetPermission toggles one permission and returns the resulting set.
func (h *AdminHandler) SetPermission(ctx context.Context, c *app.RequestContext) {
	id, err := parseID(c, "id")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	var req permissionRequest
	if err := c.BindAndValidate(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	perms, err := h.service.SetPermission(ctx, id, req.Permission, req.Enabled)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, map[string]any{"permissions": perms})
}
