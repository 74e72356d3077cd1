package db

import (
	"context"
	"errors"
	"time"

	"github.com/yi-nology/itam/biz/dal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SoftwareDAO wraps persistence for software licenses.
type SoftwareDAO struct{}

func NewSoftwareDAO() *SoftwareDAO { return &SoftwareDAO{} }

func (dao *SoftwareDAO) Create(ctx context.Context, db *gorm.DB, asset *model.SoftwareAsset) error {
	if asset == nil {
		return errors.New("software asset must not be nil")
	}
	return db.WithContext(ctx).Create(asset).Error
}

// Update applies column updates to a license.
func (dao *SoftwareDAO) Update(ctx context.Context, db *gorm.DB, id uint, updates map[string]interface{}) error {
	result := db.WithContext(ctx).
		Model(&model.SoftwareAsset{}).
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

// Delete removes a license with its assignments and notification logs.
func (dao *SoftwareDAO) Delete(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("asset_id = ?", id).Delete(&model.AssetAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", id).Delete(&model.NotificationLog{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.SoftwareAsset{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// GetByID fetches a license with vendor, department and assignments.
func (dao *SoftwareDAO) GetByID(ctx context.Context, db *gorm.DB, id uint) (*model.SoftwareAsset, error) {
	var asset model.SoftwareAsset
	if err := db.WithContext(ctx).
		Preload("Vendor").
		Preload("Department").
		Preload("Assignments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("assigned_at DESC")
		}).
		Where("id = ?", id).
		First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// List returns licenses ordered by nearest expiry.
func (dao *SoftwareDAO) List(ctx context.Context, db *gorm.DB, status string) ([]model.SoftwareAsset, error) {
	tx := db.WithContext(ctx).Preload("Vendor").Preload("Department")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var assets []model.SoftwareAsset
	if err := tx.Order("expiry_date ASC, id ASC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// ListExpiring returns an owner's ACTIVE licenses expiring in [from, to].
func (dao *SoftwareDAO) ListExpiring(ctx context.Context, db *gorm.DB, ownerID uint, status string, from, to time.Time) ([]model.SoftwareAsset, error) {
	var assets []model.SoftwareAsset
	if err := db.WithContext(ctx).
		Where("owner_admin_id = ? AND status = ? AND expiry_date >= ? AND expiry_date <= ?", ownerID, status, from, to).
		Order("expiry_date ASC, id ASC").
		Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// AssignmentDAO wraps persistence for license seat assignments.
type AssignmentDAO struct{}

func NewAssignmentDAO() *AssignmentDAO { return &AssignmentDAO{} }

func (dao *AssignmentDAO) Create(ctx context.Context, db *gorm.DB, assignment *model.AssetAssignment) error {
	if assignment == nil {
		return errors.New("assignment must not be nil")
	}
	return db.WithContext(ctx).Create(assignment).Error
}

// CountActive counts assignments of a license that have not been returned.
func (dao *AssignmentDAO) CountActive(ctx context.Context, db *gorm.DB, assetID uint) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&model.AssetAssignment{}).
		Where("asset_id = ? AND returned_at IS NULL", assetID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (dao *AssignmentDAO) GetByID(ctx context.Context, db *gorm.DB, assetID, id uint) (*model.AssetAssignment, error) {
	var assignment model.AssetAssignment
	if err := db.WithContext(ctx).
		Where("id = ? AND asset_id = ?", id, assetID).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// SetReturnedAt sets or clears the return time.
func (dao *AssignmentDAO) SetReturnedAt(ctx context.Context, db *gorm.DB, id uint, returnedAt *time.Time) error {
	return db.WithContext(ctx).
		Model(&model.AssetAssignment{}).
		Where("id = ?", id).
		Update("returned_at", returnedAt).Error
}

// VendorDAO and DepartmentDAO back the license form dropdowns.
type VendorDAO struct{}

func NewVendorDAO() *VendorDAO { return &VendorDAO{} }

func (dao *VendorDAO) List(ctx context.Context, db *gorm.DB) ([]model.Vendor, error) {
	var vendors []model.Vendor
	if err := db.WithContext(ctx).Order("name ASC").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// FirstOrCreate returns the vendor with name, creating it when missing.
func (dao *VendorDAO) FirstOrCreate(ctx context.Context, db *gorm.DB, name string) (*model.Vendor, error) {
	vendor := model.Vendor{Name: name}
	if err := db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

type DepartmentDAO struct{}

func NewDepartmentDAO() *DepartmentDAO { return &DepartmentDAO{} }

func (dao *DepartmentDAO) List(ctx context.Context, db *gorm.DB) ([]model.Department, error) {
	var departments []model.Department
	if err := db.WithContext(ctx).Order("name ASC").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

// FirstOrCreate returns the department with name, creating it when missing.
func (dao *DepartmentDAO) FirstOrCreate(ctx context.Context, db *gorm.DB, name string) (*model.Department, error) {
	department := model.Department{Name: name}
	if err := db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&department).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

// NotificationDAO wraps persistence for expiry reminder logs.
type NotificationDAO struct{}

func NewNotificationDAO() *NotificationDAO { return &NotificationDAO{} }

// SentPairs returns the (asset, rule) pairs already logged on day.
func (dao *NotificationDAO) SentPairs(ctx context.Context, db *gorm.DB, assetIDs []uint, day string) (map[uint]map[string]bool, error) {
	sent := make(map[uint]map[string]bool)
	if len(assetIDs) == 0 {
		return sent, nil
	}
	var logs []model.NotificationLog
	if err := db.WithContext(ctx).
		Where("asset_id IN ? AND sent_day = ?", assetIDs, day).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	for _, l := range logs {
		if sent[l.AssetID] == nil {
			sent[l.AssetID] = make(map[string]bool)
		}
		sent[l.AssetID][l.Rule] = true
	}
	return sent, nil
}

// CreateMany inserts logs, skipping pairs another run already wrote for the day.
func (dao *NotificationDAO) CreateMany(ctx context.Context, db *gorm.DB, logs []model.NotificationLog) (int64, error) {
	if len(logs) == 0 {
		return 0, nil
	}
	result := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&logs)
	return result.RowsAffected, result.Error
}

// ListSince returns an owner's logs sent at or after since, newest first.
func (dao *NotificationDAO) ListSince(ctx context.Context, db *gorm.DB, ownerID uint, since time.Time, limit int) ([]model.NotificationLog, error) {
	var logs []model.NotificationLog
	if err := db.WithContext(ctx).
		Preload("Asset").
		Joins("JOIN software_asset ON software_asset.id = notification_log.asset_id").
		Where("software_asset.owner_admin_id = ? AND notification_log.sent_at >= ?", ownerID, since).
		Order("notification_log.sent_at DESC, notification_log.id DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
