package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/yi-nology/itam/biz/dal/model"
	"github.com/yi-nology/itam/pkg/constants"
	"github.com/yi-nology/itam/pkg/storage"
	"go.uber.org/zap"
)

const brandObjectPrefix = "brand"

var ErrBrandLogoNotFound = errors.New("brand logo not set")

// BrandInput changes the brand. Nil fields are left as they are. An uploaded
// Logo takes precedence over LogoURL.
type BrandInput struct {
	CompanyName *string `json:"companyName"`
	LogoURL     *string `json:"logoUrl"`
	Logo        []byte  `json:"-"`
}

func (s *Service) GetBrand(ctx context.Context) (*model.AppBrand, error) {
	return s.logic.GetBrand(ctx)
}

func (s *Service) UpdateBrand(ctx context.Context, input *BrandInput) (*model.AppBrand, error) {
	if input == nil {
		return nil, invalid("input required")
	}
	updates := map[string]interface{}{}
	if input.CompanyName != nil {
		name := strings.TrimSpace(*input.CompanyName)
		if name == "" {
			return nil, invalid("company name must not be empty")
		}
		updates["company_name"] = name
	}

	current, err := s.logic.GetBrand(ctx)
	if err != nil {
		return nil, err
	}

	var newKey string
	switch {
	case len(input.Logo) > 0:
		key, contentType, err := s.storeLogo(ctx, input.Logo)
		if err != nil {
			return nil, err
		}
		newKey = key
		updates["logo_key"] = key
		updates["logo_type"] = contentType
		updates["logo_url"] = s.basePath + constants.BrandLogoRoute + "?v=" + strconv.FormatInt(s.now().Unix(), 10)
	case input.LogoURL != nil:
		updates["logo_key"] = ""
		updates["logo_type"] = ""
		updates["logo_url"] = strings.TrimSpace(*input.LogoURL)
	}

	brand, err := s.logic.UpdateBrand(ctx, updates)
	if err != nil {
		if newKey != "" {
			_ = s.storage.DeleteObject(ctx, newKey)
		}
		return nil, err
	}
	if _, replaced := updates["logo_key"]; replaced && s.storage != nil && current.LogoKey != "" && current.LogoKey != brand.LogoKey {
		if err := s.storage.DeleteObject(ctx, current.LogoKey); err != nil {
			s.logger.Warn("delete previous logo failed", zap.String("key", current.LogoKey), zap.Error(err))
		}
	}
	s.logger.Info("brand updated", zap.String("company", brand.CompanyName), zap.Bool("logo_uploaded", newKey != ""))
	return brand, nil
}

func (s *Service) storeLogo(ctx context.Context, logo []byte) (string, string, error) {
	if s.storage == nil {
		return "", "", errors.New("storage is not configured")
	}
	// the declared type is ignored; only sniffed image types are stored
	contentType, err := s.upload.Validate(logo, "")
	if err != nil {
		return "", "", invalid(err.Error())
	}
	ext, ok := logoExtensions[contentType]
	if !ok {
		return "", "", invalid("logo must be a png, jpeg or webp image")
	}
	key := storage.ObjectKey(brandObjectPrefix, "logo-"+uuid.NewString()+"."+ext)
	if err := s.storage.PutObject(ctx, key, bytes.NewReader(logo), contentType, int64(len(logo))); err != nil {
		return "", "", fmt.Errorf("upload logo: %w", err)
	}
	return key, contentType, nil
}

var logoExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

// GetBrandLogo returns the stored logo; the caller must close the reader.
func (s *Service) GetBrandLogo(ctx context.Context) (*model.AppBrand, io.ReadCloser, error) {
	brand, err := s.logic.GetBrand(ctx)
	if err != nil {
		return nil, nil, err
	}
	if brand.LogoKey == "" || s.storage == nil {
		return nil, nil, ErrBrandLogoNotFound
	}
	reader, err := s.storage.GetObject(ctx, brand.LogoKey)
	if err != nil {
		return nil, nil, fmt.Errorf("get logo: %w", err)
	}
	return brand, reader, nil
}

// CheckUploadSize rejects a declared upload size before the body is read.
func (s *Service) CheckUploadSize(size int64) error {
	if err := s.upload.ValidateFileSize(size); err != nil {
		return invalid(err.Error())
	}
	return nil
}
