package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/itam/biz/catalog"
	"github.com/yi-nology/itam/biz/service"
	"github.com/yi-nology/itam/pkg/common"
)

// Ping answers liveness checks.
func Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK, Msg: "pong"})
}

// readFormFile checks the declared size against the upload limit before
// reading the part into memory.
func readFormFile(svc *service.Service, fileHeader *multipart.FileHeader) ([]byte, error) {
	if err := svc.CheckUploadSize(fileHeader.Size); err != nil {
		return nil, err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func parseID(c *app.RequestContext, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name + ": " + raw)
	}
	return uint(id), nil
}

func respondData(c *app.RequestContext, data any) {
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Msg:  http.StatusText(consts.StatusOK),
		Data: data,
	})
}

func respondOK(c *app.RequestContext) {
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK, Msg: http.StatusText(consts.StatusOK)})
}

// respondError maps service and catalog errors onto envelope codes.
func respondError(ctx context.Context, c *app.RequestContext, err error) {
	var (
		ve *service.ValidationError
		fe *catalog.FieldError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &fe):
		writeBadRequest(c, err)
	case errors.Is(err, catalog.ErrSchemaNotFound),
		errors.Is(err, service.ErrEntityNotFound),
		errors.Is(err, service.ErrAssetTypeNotFound),
		errors.Is(err, service.ErrFieldNotFound),
		errors.Is(err, service.ErrAdminNotFound),
		errors.Is(err, service.ErrLicenseNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrAttachmentNotFound),
		errors.Is(err, service.ErrBrandLogoNotFound):
		writeNotFound(c, err)
	case errors.Is(err, service.ErrAssetTypeSlugExists),
		errors.Is(err, service.ErrFieldKeyExists),
		errors.Is(err, service.ErrFieldKeyImmutable),
		errors.Is(err, service.ErrUsernameExists),
		errors.Is(err, service.ErrNoSeatsAvailable):
		writeStatus(c, consts.StatusConflict, err)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeStatus(c, consts.StatusUnauthorized, err)
	case errors.Is(err, service.ErrAdminInactive), errors.Is(err, service.ErrForbidden):
		writeStatus(c, consts.StatusForbidden, err)
	default:
		hlog.CtxErrorf(ctx, "request failed: %v", err)
		writeInternalError(c, err)
	}
}

func writeBadRequest(c *app.RequestContext, err error) {
	writeStatus(c, consts.StatusBadRequest, err)
}

func writeNotFound(c *app.RequestContext, err error) {
	writeStatus(c, consts.StatusNotFound, err)
}

func writeInternalError(c *app.RequestContext, err error) {
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code:  consts.StatusInternalServerError,
		Msg:   "internal error",
		Error: err.Error(),
	})
}

func writeStatus(c *app.RequestContext, status int, err error) {
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code:  status,
		Msg:   err.Error(),
		Error: err.Error(),
	})
}
