package validator

import (
	"errors"
	"net/http"
	"strings"

	"github.com/yi-nology/itam/pkg/config"
)

var (
	ErrFileEmpty          = errors.New("file is empty")
	ErrFileTooLarge       = errors.New("file too large")
	ErrMissingContentType = errors.New("missing content type")
	ErrUnsupportedType    = errors.New("unsupported file type")
)

// Upload enforces size and MIME constraints for attachments and CSV imports.
type Upload struct {
	MaxFileSize      int64
	AllowedMimeTypes map[string]bool
}

// NewUpload builds an Upload validator from configuration.
func NewUpload(cfg config.UploadConfig) *Upload {
	allowed := make(map[string]bool, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[normalizeMime(t)] = true
	}
	return &Upload{
		MaxFileSize:      cfg.MaxSize,
		AllowedMimeTypes: allowed,
	}
}

// ValidateFileSize checks if the file size is within the allowed limit.
func (u *Upload) ValidateFileSize(size int64) error {
	if size <= 0 {
		return ErrFileEmpty
	}
	if u.MaxFileSize > 0 && size > u.MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// ValidateMimeType checks if the MIME type is in the allowed whitelist.
func (u *Upload) ValidateMimeType(mimeType string) error {
	normalized := normalizeMime(mimeType)
	if normalized == "" {
		return ErrMissingContentType
	}
	if !u.AllowedMimeTypes[normalized] {
		return ErrUnsupportedType
	}
	return nil
}

// DetectContentType prefers a whitelisted declared type and falls back to sniffing.
func (u *Upload) DetectContentType(data []byte, declaredType string) (string, error) {
	if declared := normalizeMime(declaredType); declared != "" && u.AllowedMimeTypes[declared] {
		return declared, nil
	}
	detected := normalizeMime(http.DetectContentType(data))
	if err := u.ValidateMimeType(detected); err != nil {
		return detected, err
	}
	return detected, nil
}

// Validate performs full validation on an upload and returns the content type to store.
func (u *Upload) Validate(data []byte, declaredType string) (string, error) {
	if err := u.ValidateFileSize(int64(len(data))); err != nil {
		return "", err
	}
	return u.DetectContentType(data, declaredType)
}

// Handle MIME types with parameters (e.g., "text/plain; charset=utf-8")
func normalizeMime(mimeType string) string {
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(normalized, ";"); idx > 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	return normalized
}
