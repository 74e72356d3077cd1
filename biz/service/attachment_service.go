package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yi-nology/itam/biz/dal/model"
	"github.com/yi-nology/itam/pkg/storage"
	"go.uber.org/zap"
)

// FileUploadInput captures metadata and payload for attachment uploads.
type FileUploadInput struct {
	EntityID    uint
	Remark      string
	FileName    string
	ContentType string
	Data        []byte
}

func (s *Service) ListAttachments(ctx context.Context, entityID uint) ([]model.Attachment, error) {
	if _, err := s.logic.GetEntity(ctx, entityID); err != nil {
		return nil, err
	}
	return s.logic.ListAttachments(ctx, entityID)
}

func (s *Service) UploadAttachment(ctx context.Context, input *FileUploadInput) (*model.Attachment, error) {
	if input == nil {
		return nil, invalid("input required")
	}
	if _, err := s.logic.GetEntity(ctx, input.EntityID); err != nil {
		return nil, err
	}
	contentType, err := s.upload.Validate(input.Data, input.ContentType)
	if err != nil {
		return nil, invalid(err.Error())
	}

	fileID := uuid.NewString()
	fileName := filepath.Base(strings.TrimSpace(input.FileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		fileName = fileID
	}

	// Build storage key
	key := storage.ObjectKey(fileID, fileName)

	// Upload to storage
	if err := s.storage.PutObject(ctx, key, bytes.NewReader(input.Data), contentType, int64(len(input.Data))); err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	// Generate URL
	url, err := s.storage.GenerateURL(ctx, key, fileName)
	if err != nil {
		// Rollback: delete uploaded file
		_ = s.storage.DeleteObject(ctx, key)
		return nil, fmt.Errorf("generate url: %w", err)
	}

	attachment := &model.Attachment{
		FileID:      fileID,
		EntityID:    input.EntityID,
		FileName:    fileName,
		ContentType: contentType,
		FileSize:    int64(len(input.Data)),
		Path:        key,
		URL:         url,
		Remark:      strings.TrimSpace(input.Remark),
	}

	if err := s.logic.CreateAttachment(ctx, attachment); err != nil {
		// Rollback: delete uploaded file
		_ = s.storage.DeleteObject(ctx, key)
		return nil, err
	}
	return attachment, nil
}

// GetAttachmentFile returns the metadata and a reader the caller must close.
func (s *Service) GetAttachmentFile(ctx context.Context, fileID string) (*model.Attachment, io.ReadCloser, error) {
	if fileID == "" {
		return nil, nil, ErrAttachmentNotFound
	}
	attachment, err := s.logic.GetAttachment(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	// Get file from storage
	reader, err := s.storage.GetObject(ctx, attachment.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("get file: %w", err)
	}

	return attachment, reader, nil
}

// DeleteAttachment removes the row first so a storage failure leaves only an orphaned object.
func (s *Service) DeleteAttachment(ctx context.Context, fileID string) error {
	attachment, err := s.logic.GetAttachment(ctx, fileID)
	if err != nil {
		return err
	}
	if err := s.logic.DeleteAttachment(ctx, fileID); err != nil {
		return err
	}
	if err := s.storage.DeleteObject(ctx, attachment.Path); err != nil {
		s.logger.Warn("delete attachment object failed", zap.String("key", attachment.Path), zap.Error(err))
	}
	return nil
}
