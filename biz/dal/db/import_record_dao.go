package db

import (
	"context"
	"errors"

	"github.com/yi-nology/itam/biz/dal/model"
	"gorm.io/gorm"
)

// ImportRecordDAO stores the audit trail of CSV ingestions.
type ImportRecordDAO struct{}

func NewImportRecordDAO() *ImportRecordDAO { return &ImportRecordDAO{} }

func (dao *ImportRecordDAO) Create(ctx context.Context, db *gorm.DB, record *model.ImportRecord) error {
	if record == nil {
		return errors.New("import record must not be nil")
	}
	return db.WithContext(ctx).Create(record).Error
}

// ListRecent returns the newest records, optionally for one type slug.
func (dao *ImportRecordDAO) ListRecent(ctx context.Context, db *gorm.DB, typeSlug string, limit int) ([]model.ImportRecord, error) {
	tx := db.WithContext(ctx)
	if typeSlug != "" {
		tx = tx.Where("type_slug = ?", typeSlug)
	}
	var records []model.ImportRecord
	if err := tx.Order("created_at DESC, id DESC").Limit(ClampLimit(limit)).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
