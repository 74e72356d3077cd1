package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/yi-nology/itam/biz/service"
)

// AssetTypeHandler exposes the schema registry.
type AssetTypeHandler struct {
	service *service.Service
}

func NewAssetTypeHandler(svc *service.Service) *AssetTypeHandler {
	return &AssetTypeHandler{service: svc}
}

// List returns active asset types; ?all=true includes inactive ones.
func (h *AssetTypeHandler) List(ctx context.Context, c *app.RequestContext) {
	types, err := h.service.ListAssetTypes(ctx, c.Query("all") == "true")
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, map[string]any{"items": types})
}

// Describe returns the active schema of one type for form rendering.
func (h *AssetTypeHandler) Describe(ctx context.Context, c *app.RequestContext) {
	desc, err := h.service.DescribeSchema(ctx, c.Param("slug"))
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, desc)
}

func (h *AssetTypeHandler) Create(ctx context.Context, c *app.RequestContext) {
	var input service.AssetTypeInput
	if err := c.BindAndValidate(&input); err != nil {
		writeBadRequest(c, err)
		return
	}
	assetType, err := h.service.CreateAssetType(ctx, &input)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, assetType)
}

func (h *AssetTypeHandler) Update(ctx context.Context, c *app.RequestContext) {
	var input service.AssetTypeInput
	if err := c.BindAndValidate(&input); err != nil {
		writeBadRequest(c, err)
		return
	}
	assetType, err := h.service.UpdateAssetType(ctx, c.Param("slug"), &input)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, assetType)
}

// Deactivate hides the type; types are never hard-deleted.
func (h *AssetTypeHandler) Deactivate(ctx context.Context, c *app.RequestContext) {
	if err := h.service.DeactivateAssetType(ctx, c.Param("slug")); err != nil {
		respondError(ctx, c, err)
		return
	}
	respondOK(c)
}

func (h *AssetTypeHandler) AddField(ctx context.Context, c *app.RequestContext) {
	var input service.FieldInput
	if err := c.BindAndValidate(&input); err != nil {
		writeBadRequest(c, err)
		return
	}
	field, err := h.service.AddField(ctx, c.Param("slug"), &input)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, field)
}

func (h *AssetTypeHandler) UpdateField(ctx context.Context, c *app.RequestContext) {
	var input service.FieldInput
	if err := c.BindAndValidate(&input); err != nil {
		writeBadRequest(c, err)
		return
	}
	field, err := h.service.UpdateField(ctx, c.Param("slug"), c.Param("key"), &input)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, field)
}

func (h *AssetTypeHandler) DeactivateField(ctx context.Context, c *app.RequestContext) {
	if err := h.service.DeactivateField(ctx, c.Param("slug"), c.Param("key")); err != nil {
		respondError(ctx, c, err)
		return
	}
	respondOK(c)
}
