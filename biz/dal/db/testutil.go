package db

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/yi-nology/itam/biz/dal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Reduce log noise in tests
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// a second pooled connection would open a fresh, empty in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		t.Fatalf("Failed to migrate tables: %v", err)
	}

	return db
}

// CleanupTestDB closes the database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close DB: %v", err)
	}
}

// CreateTestAssetType creates an active asset type with the given fields.
func CreateTestAssetType(t *testing.T, db *gorm.DB, slug string, fields ...model.AssetTypeField) *model.AssetType {
	t.Helper()
	assetType := &model.AssetType{
		Slug:     slug,
		Name:     "Test " + slug,
		IsActive: true,
	}
	if err := NewAssetTypeDAO().Create(context.Background(), db, assetType); err != nil {
		t.Fatalf("Failed to create test asset type: %v", err)
	}
	for i := range fields {
		fields[i].TypeID = assetType.ID
		fields[i].IsActive = true
		if err := NewFieldDAO().Create(context.Background(), db, &fields[i]); err != nil {
			t.Fatalf("Failed to create test field: %v", err)
		}
	}
	assetType.Fields = fields
	return assetType
}

// TestField builds a field definition for CreateTestAssetType.
func TestField(key, fieldType string, required bool, order int, options string) model.AssetTypeField {
	field := model.AssetTypeField{
		Key:       key,
		Label:     key,
		FieldType: fieldType,
		Required:  required,
		SortOrder: order,
	}
	if options != "" {
		field.OptionsJSON = datatypes.JSON(options)
	}
	return field
}

// CreateTestAdmin creates an active admin with the given role and grants.
func CreateTestAdmin(t *testing.T, db *gorm.DB, username, role string, permissions ...string) *model.Admin {
	t.Helper()
	admin := &model.Admin{
		Username:     username,
		PasswordHash: "x",
		Name:         "Test " + username,
		Role:         role,
		IsActive:     true,
	}
	for _, p := range permissions {
		admin.Permissions = append(admin.Permissions, model.AdminPermissionGrant{Permission: p})
	}
	if err := NewAdminDAO().Create(context.Background(), db, admin); err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}
	return admin
}

// CreateTestSoftware creates an ACTIVE license owned by ownerID.
func CreateTestSoftware(t *testing.T, db *gorm.DB, ownerID uint, name string, expiry time.Time, seats *int) *model.SoftwareAsset {
	t.Helper()
	asset := &model.SoftwareAsset{
		Name:         name,
		Category:     "SAAS",
		Status:       "ACTIVE",
		ExpiryDate:   expiry,
		SeatsTotal:   seats,
		Currency:     "KRW",
		BillingCycle: "MONTHLY",
		OwnerAdminID: ownerID,
	}
	if err := NewSoftwareDAO().Create(context.Background(), db, asset); err != nil {
		t.Fatalf("Failed to create test software: %v", err)
	}
	return asset
}
