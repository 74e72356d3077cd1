package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/itam/biz/catalog"
	"github.com/yi-nology/itam/biz/service"
	"github.com/yi-nology/itam/pkg/common"
)

// AssetHandler exposes asset entities, CSV import and attachments.
type AssetHandler struct {
	service *service.Service
}

func NewAssetHandler(svc *service.Service) *AssetHandler {
	return &AssetHandler{service: svc}
}

// List supports ?typeSlug=, ?q= (title substring) and ?take=.
func (h *AssetHandler) List(ctx context.Context, c *app.RequestContext) {
	query := service.EntityQuery{
		TypeSlug: strings.TrimSpace(c.Query("typeSlug")),
		Query:    strings.TrimSpace(c.Query("q")),
	}
	if raw := c.Query("take"); raw != "" {
		take, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(c, fmt.Errorf("invalid take: %s", raw))
			return
		}
		query.Take = take
	}
	items, err := h.service.ListEntities(ctx, query)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, map[string]any{"items": items})
}

func (h *AssetHandler) Get(ctx context.Context, c *app.RequestContext) {
	id, err := parseID(c, "id")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	entity, err := h.service.GetEntity(ctx, id)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, entity)
}

func (h *AssetHandler) Create(ctx context.Context, c *app.RequestContext) {
	var input service.EntityInput
	if err := c.BindAndValidate(&input); err != nil {
		writeBadRequest(c, err)
		return
	}
	entity, err := h.service.CreateEntity(ctx, &input)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, entity)
}

func (h *AssetHandler) Patch(ctx context.Context, c *app.RequestContext) {
	id, err := parseID(c, "id")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	var patch service.EntityPatch
	if err := c.BindAndValidate(&patch); err != nil {
		writeBadRequest(c, err)
		return
	}
	entity, err := h.service.UpdateEntity(ctx, id, &patch)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, entity)
}

func (h *AssetHandler) Delete(ctx context.Context, c *app.RequestContext) {
	id, err := parseID(c, "id")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	if err := h.service.DeleteEntity(ctx, id); err != nil {
		respondError(ctx, c, err)
		return
	}
	respondOK(c)
}

// ImportCSV accepts multipart "typeSlug" and "file". A request where no row
// was accepted still answers 200 with the row report.
func (h *AssetHandler) ImportCSV(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	data, err := readFormFile(h.service, fileHeader)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	result, err := h.service.ImportCSV(ctx, &service.ImportInput{
		TypeSlug: string(c.FormValue("typeSlug")),
		FileName: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		var swe *catalog.StorageWriteError
		if errors.As(err, &swe) {
			hlog.CtxErrorf(ctx, "csv import storage failure: %v", err)
			c.JSON(consts.StatusOK, common.CommonResponse{
				Code:  consts.StatusInternalServerError,
				Msg:   "failed to save imported rows",
				Error: err.Error(),
				Data:  result,
			})
			return
		}
		respondError(ctx, c, err)
		return
	}
	respondData(c, result)
}

// ListImports returns recent import audits; ?typeSlug= and ?take= are optional.
func (h *AssetHandler) ListImports(ctx context.Context, c *app.RequestContext) {
	take, _ := strconv.Atoi(c.Query("take"))
	records, err := h.service.ListImportRecords(ctx, c.Query("typeSlug"), take)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, map[string]any{"items": records})
}

func (h *AssetHandler) ListAttachments(ctx context.Context, c *app.RequestContext) {
	id, err := parseID(c, "id")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	items, err := h.service.ListAttachments(ctx, id)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, map[string]any{"items": items})
}

// UploadAttachment handles multipart uploads for one entity.
func (h *AssetHandler) UploadAttachment(ctx context.Context, c *app.RequestContext) {
	id, err := parseID(c, "id")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	data, err := readFormFile(h.service, fileHeader)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	attachment, err := h.service.UploadAttachment(ctx, &service.FileUploadInput{
		EntityID:    id,
		Remark:      string(c.FormValue("remark")),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, attachment)
}

// GetAttachment streams stored attachment content back to the client.
func (h *AssetHandler) GetAttachment(ctx context.Context, c *app.RequestContext) {
	attachment, reader, err := h.service.GetAttachmentFile(ctx, c.Param("fileID"))
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		writeInternalError(c, err)
		return
	}

	contentType := attachment.ContentType
	if contentType == "" {
		contentType = consts.MIMEApplicationOctetStream
	}
	if attachment.FileName != "" {
		c.Response.Header.Set("Content-Disposition", fmt.Sprintf("inline; filename=\"%s\"", attachment.FileName))
	}
	c.Data(consts.StatusOK, contentType, content)
}

func (h *AssetHandler) DeleteAttachment(ctx context.Context, c *app.RequestContext) {
	if err := h.service.DeleteAttachment(ctx, c.Param("fileID")); err != nil {
		respondError(ctx, c, err)
		return
	}
	respondOK(c)
}
