package db

import (
	"context"
	"errors"

	"github.com/yi-nology/itam/biz/dal/model"
	"gorm.io/gorm"
)

// AdminDAO wraps persistence for admin accounts and their permission grants.
type AdminDAO struct{}

func NewAdminDAO() *AdminDAO { return &AdminDAO{} }

// Create persists a new admin together with any grants set on it.
func (dao *AdminDAO) Create(ctx context.Context, db *gorm.DB, admin *model.Admin) error {
	if admin == nil {
		return errors.New("admin must not be nil")
	}
	if admin.Username == "" {
		return errors.New("username is required")
	}
	return db.WithContext(ctx).Create(admin).Error
}

// GetByID fetches an admin with its permission grants.
func (dao *AdminDAO) GetByID(ctx context.Context, db *gorm.DB, id uint) (*model.Admin, error) {
	var admin model.Admin
	if err := db.WithContext(ctx).
		Preload("Permissions").
		Where("id = ?", id).
		First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByUsername fetches an admin by login name.
func (dao *AdminDAO) GetByUsername(ctx context.Context, db *gorm.DB, username string) (*model.Admin, error) {
	var admin model.Admin
	if err := db.WithContext(ctx).
		Preload("Permissions").
		Where("username = ?", username).
		First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// List returns all admins ordered by creation.
func (dao *AdminDAO) List(ctx context.Context, db *gorm.DB) ([]model.Admin, error) {
	var admins []model.Admin
	if err := db.WithContext(ctx).
		Preload("Permissions").
		Order("created_at ASC, id ASC").
		Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// Count returns the number of admins.
func (dao *AdminDAO) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.Admin{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByUsername checks if the login name is taken.
func (dao *AdminDAO) ExistsByUsername(ctx context.Context, db *gorm.DB, username string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReplacePermissions swaps the admin's grants for the given set in one transaction.
func (dao *AdminDAO) ReplacePermissions(ctx context.Context, db *gorm.DB, adminID uint, permissions []string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("admin_id = ?", adminID).Delete(&model.AdminPermissionGrant{}).Error; err != nil {
			return err
		}
		if len(permissions) == 0 {
			return nil
		}
		grants := make([]model.AdminPermissionGrant, 0, len(permissions))
		for _, p := range permissions {
			grants = append(grants, model.AdminPermissionGrant{AdminID: adminID, Permission: p})
		}
		return tx.Create(&grants).Error
	})
}

// HasPermission reports whether a grant row exists.
func (dao *AdminDAO) HasPermission(ctx context.Context, db *gorm.DB, adminID uint, permission string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&model.AdminPermissionGrant{}).
		Where("admin_id = ? AND permission = ?", adminID, permission).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes an admin. Entities it created keep existing with a null creator.
func (dao *AdminDAO) Delete(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.AssetEntity{}).
			Where("created_by_id = ?", id).
			Update("created_by_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("admin_id = ?", id).Delete(&model.AdminPermissionGrant{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Admin{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Update applies column updates to one admin.
func (dao *AdminDAO) Update(ctx context.Context, db *gorm.DB, id uint, updates map[string]interface{}) error {
	result := db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
