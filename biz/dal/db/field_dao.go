package db

import (
	"context"
	"errors"

	"github.com/yi-nology/itam/biz/dal/model"
	"gorm.io/gorm"
)

// FieldDAO handles CRUD operations for asset type fields.
type FieldDAO struct{}

func NewFieldDAO() *FieldDAO { return &FieldDAO{} }

// Create persists a new field.
func (dao *FieldDAO) Create(ctx context.Context, db *gorm.DB, entity *model.AssetTypeField) error {
	if entity == nil {
		return errors.New("field must not be nil")
	}
	if entity.TypeID == 0 || entity.Key == "" {
		return errors.New("type_id and key are required")
	}
	return db.WithContext(ctx).Create(entity).Error
}

// Update applies column updates to the field identified by type and key.
func (dao *FieldDAO) Update(ctx context.Context, db *gorm.DB, typeID uint, key string, updates map[string]interface{}) error {
	result := db.WithContext(ctx).
		Model(&model.AssetTypeField{}).
		Where("type_id = ? AND field_key = ?", typeID, key).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByKey fetches one field of a type regardless of its active flag.
func (dao *FieldDAO) GetByKey(ctx context.Context, db *gorm.DB, typeID uint, key string) (*model.AssetTypeField, error) {
	var entity model.AssetTypeField
	if err := db.WithContext(ctx).
		Where("type_id = ? AND field_key = ?", typeID, key).
		First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// ListByType returns the fields of a type ordered by (sort_order, id).
func (dao *FieldDAO) ListByType(ctx context.Context, db *gorm.DB, typeID uint, activeOnly bool) ([]model.AssetTypeField, error) {
	tx := db.WithContext(ctx).Where("type_id = ?", typeID)
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}
	var fields []model.AssetTypeField
	if err := tx.Order("sort_order ASC, id ASC").Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

// ExistsByKey checks if a type already declares key.
func (dao *FieldDAO) ExistsByKey(ctx context.Context, db *gorm.DB, typeID uint, key string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&model.AssetTypeField{}).
		Where("type_id = ? AND field_key = ?", typeID, key).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
