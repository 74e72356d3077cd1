package handler

import (
	"context"
	"io"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/itam/biz/service"
)

// BrandHandler serves the company name and logo shown in the UI header.
type BrandHandler struct {
	service *service.Service
}

func NewBrandHandler(svc *service.Service) *BrandHandler {
	return &BrandHandler{service: svc}
}

func (h *BrandHandler) Get(ctx context.Context, c *app.RequestContext) {
	brand, err := h.service.GetBrand(ctx)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, brand)
}

// Update accepts multipart "companyName" and "logo", or a JSON body with
// companyName and logoUrl.
func (h *BrandHandler) Update(ctx context.Context, c *app.RequestContext) {
	var input service.BrandInput
	if strings.HasPrefix(string(c.ContentType()), consts.MIMEMultipartPOSTForm) {
		form, err := c.MultipartForm()
		if err != nil {
			writeBadRequest(c, err)
			return
		}
		if names := form.Value["companyName"]; len(names) > 0 {
			input.CompanyName = &names[0]
		}
		if files := form.File["logo"]; len(files) > 0 && files[0].Size > 0 {
			data, err := readFormFile(h.service, files[0])
			if err != nil {
				respondError(ctx, c, err)
				return
			}
			input.Logo = data
		}
	} else if err := c.BindAndValidate(&input); err != nil {
		writeBadRequest(c, err)
		return
	}

	brand, err := h.service.UpdateBrand(ctx, &input)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, brand)
}

// Logo streams the uploaded logo image.
func (h *BrandHandler) Logo(ctx context.Context, c *app.RequestContext) {
	brand, reader, err := h.service.GetBrandLogo(ctx)
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
	c.Response.Header.Set("Cache-Control", "private, max-age=300")
	c.Data(consts.StatusOK, brand.LogoType, content)
}
