package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/yi-nology/itam/biz/dal/model"

	"gorm.io/gorm"
)

// AttachmentDAO handles CRUD operations for entity attachments.
type AttachmentDAO struct{}

func NewAttachmentDAO() *AttachmentDAO { return &AttachmentDAO{} }

func (dao *AttachmentDAO) Create(ctx context.Context, db *gorm.DB, attachment *model.Attachment) error {
	if attachment == nil {
		return nil
	}
	if attachment.FileID == "" {
		attachment.FileID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(attachment).Error
}

func (dao *AttachmentDAO) DeleteByFileID(ctx context.Context, db *gorm.DB, fileID string) error {
	result := db.WithContext(ctx).Where("file_id = ?", fileID).Delete(&model.Attachment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByEntity removes every attachment row of one entity.
func (dao *AttachmentDAO) DeleteByEntity(ctx context.Context, db *gorm.DB, entityID uint) error {
	return db.WithContext(ctx).Where("entity_id = ?", entityID).Delete(&model.Attachment{}).Error
}

func (dao *AttachmentDAO) GetByFileID(ctx context.Context, db *gorm.DB, fileID string) (*model.Attachment, error) {
	var attachment model.Attachment
	if err := db.WithContext(ctx).Where("file_id = ?", fileID).First(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (dao *AttachmentDAO) ListByEntity(ctx context.Context, db *gorm.DB, entityID uint) ([]model.Attachment, error) {
	var attachments []model.Attachment
	if err := db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("created_at DESC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}
