package db

import (
	"github.com/yi-nology/itam/biz/dal/model"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, parents first.
func Models() []interface{} {
	return []interface{}{
		&model.Admin{},
		&model.AdminPermissionGrant{},
		&model.AssetType{},
		&model.AssetTypeField{},
		&model.AssetEntity{},
		&model.Attachment{},
		&model.ImportRecord{},
		&model.Vendor{},
		&model.Department{},
		&model.SoftwareAsset{},
		&model.AssetAssignment{},
		&model.NotificationLog{},
		&model.AppBrand{},
	}
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
