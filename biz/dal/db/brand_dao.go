package db

import (
	"context"

	"github.com/yi-nology/itam/biz/dal/model"
	"gorm.io/gorm"
)

// BrandDAO reads and writes the single app_brand row.
type BrandDAO struct{}

func NewBrandDAO() *BrandDAO { return &BrandDAO{} }

// Get returns the brand row, creating it with defaultName on first use.
func (dao *BrandDAO) Get(ctx context.Context, db *gorm.DB, defaultName string) (*model.AppBrand, error) {
	var brand model.AppBrand
	err := db.WithContext(ctx).
		Where(model.AppBrand{ID: model.BrandID}).
		Attrs(model.AppBrand{CompanyName: defaultName}).
		FirstOrCreate(&brand).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

// Update applies column updates and returns the stored row.
func (dao *BrandDAO) Update(ctx context.Context, db *gorm.DB, updates map[string]interface{}) (*model.AppBrand, error) {
	if len(updates) > 0 {
		if err := db.WithContext(ctx).
			Model(&model.AppBrand{ID: model.BrandID}).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	var brand model.AppBrand
	if err := db.WithContext(ctx).First(&brand, model.BrandID).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}
