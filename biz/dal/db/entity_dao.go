package db

import (
	"context"
	"errors"
	"strings"

	"github.com/yi-nology/itam/biz/dal/model"

	"gorm.io/gorm"
)

// Entity list limits.
const (
	DefaultEntityListLimit = 200
	MaxEntityListLimit     = 500
)

// EntityFilter narrows List results.
type EntityFilter struct {
	TypeSlug string
	Query    string
	Limit    int
}

// EntityDAO wraps persistence for asset entities. It never validates data.
type EntityDAO struct{}

func NewEntityDAO() *EntityDAO { return &EntityDAO{} }

// Create persists a single entity.
func (dao *EntityDAO) Create(ctx context.Context, db *gorm.DB, entity *model.AssetEntity) error {
	if entity == nil {
		return errors.New("entity must not be nil")
	}
	return db.WithContext(ctx).Create(entity).Error
}

const createBatchSize = 100

// CreateMany inserts all entities in one transaction. Either every row is
// written or none is.
func (dao *EntityDAO) CreateMany(ctx context.Context, db *gorm.DB, entities []model.AssetEntity) (int64, error) {
	if len(entities) == 0 {
		return 0, nil
	}
	var written int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.CreateInBatches(&entities, createBatchSize)
		if result.Error != nil {
			return result.Error
		}
		written = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// Update applies column updates to the entity and returns the updated row.
// A missing entity yields gorm.ErrRecordNotFound.
func (dao *EntityDAO) Update(ctx context.Context, db *gorm.DB, id uint, updates map[string]interface{}) (*model.AssetEntity, error) {
	if _, err := dao.GetByID(ctx, db, id); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := db.WithContext(ctx).
			Model(&model.AssetEntity{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return dao.GetByID(ctx, db, id)
}

// Delete hard-deletes an entity.
func (dao *EntityDAO) Delete(ctx context.Context, db *gorm.DB, id uint) error {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&model.AssetEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByID fetches one entity with its type.
func (dao *EntityDAO) GetByID(ctx context.Context, db *gorm.DB, id uint) (*model.AssetEntity, error) {
	var entity model.AssetEntity
	if err := db.WithContext(ctx).
		Preload("Type").
		Where("id = ?", id).
		First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// List returns entities newest first, filtered by type slug and title substring.
func (dao *EntityDAO) List(ctx context.Context, db *gorm.DB, filter EntityFilter) ([]model.AssetEntity, error) {
	tx := db.WithContext(ctx).Model(&model.AssetEntity{}).Preload("Type")
	if slug := strings.TrimSpace(filter.TypeSlug); slug != "" {
		tx = tx.Joins("JOIN asset_type ON asset_type.id = asset_entity.type_id").
			Where("asset_type.slug = ?", slug)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		tx = tx.Where("asset_entity.title LIKE ?", "%"+q+"%")
	}

	var entities []model.AssetEntity
	if err := tx.
		Order("asset_entity.created_at DESC, asset_entity.id DESC").
		Limit(ClampLimit(filter.Limit)).
		Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// CountByType counts entities stored under a type.
func (dao *EntityDAO) CountByType(ctx context.Context, db *gorm.DB, typeID uint) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&model.AssetEntity{}).
		Where("type_id = ?", typeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ClampLimit applies the list default and bounds.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultEntityListLimit
	}
	if limit > MaxEntityListLimit {
		return MaxEntityListLimit
	}
	return limit
}
