package db

import (
	"context"
	"errors"

	"github.com/yi-nology/itam/biz/dal/model"
	"gorm.io/gorm"
)

// AssetTypeDAO wraps basic CRUD operations for asset types.
type AssetTypeDAO struct{}

func NewAssetTypeDAO() *AssetTypeDAO { return &AssetTypeDAO{} }

// Create persists a new asset type.
func (dao *AssetTypeDAO) Create(ctx context.Context, db *gorm.DB, entity *model.AssetType) error {
	if entity == nil {
		return errors.New("asset type must not be nil")
	}
	if entity.Slug == "" {
		return errors.New("slug is required")
	}
	return db.WithContext(ctx).Create(entity).Error
}

// Update applies the given column updates to the type identified by slug.
func (dao *AssetTypeDAO) Update(ctx context.Context, db *gorm.DB, slug string, updates map[string]interface{}) error {
	result := db.WithContext(ctx).
		Model(&model.AssetType{}).
		Where("slug = ?", slug).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetBySlug fetches a single asset type by slug regardless of its active flag.
func (dao *AssetTypeDAO) GetBySlug(ctx context.Context, db *gorm.DB, slug string) (*model.AssetType, error) {
	var entity model.AssetType
	if err := db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetActiveBySlug fetches an active asset type with its active fields in display order.
func (dao *AssetTypeDAO) GetActiveBySlug(ctx context.Context, db *gorm.DB, slug string) (*model.AssetType, error) {
	var entity model.AssetType
	if err := db.WithContext(ctx).
		Preload("Fields", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_active = ?", true).Order("sort_order ASC, id ASC")
		}).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// List returns asset types with optional active filter.
func (dao *AssetTypeDAO) List(ctx context.Context, db *gorm.DB, isActive *bool) ([]model.AssetType, error) {
	tx := db.WithContext(ctx)
	if isActive != nil {
		tx = tx.Where("is_active = ?", *isActive)
	}

	var entities []model.AssetType
	if err := tx.Order("sort_order ASC, id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// ExistsBySlug checks if an asset type with the given slug exists.
func (dao *AssetTypeDAO) ExistsBySlug(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&model.AssetType{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
