package db

import (
	"context"
	"errors"
	"testing"

	"github.com/yi-nology/itam/biz/dal/model"
	"gorm.io/gorm"
)

func TestAssetTypeDAO_Create(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewAssetTypeDAO()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		assetType := &model.AssetType{Slug: "laptop", Name: "Laptop", IsActive: true}
		if err := dao.Create(ctx, db, assetType); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if assetType.ID == 0 {
			t.Error("Expected ID to be set after creation")
		}
		found, err := dao.GetBySlug(ctx, db, "laptop")
		if err != nil {
			t.Fatalf("GetBySlug failed: %v", err)
		}
		if found.Name != "Laptop" {
			t.Errorf("Expected name 'Laptop', got '%s'", found.Name)
		}
	})

	t.Run("NilEntity", func(t *testing.T) {
		err := dao.Create(ctx, db, nil)
		if err == nil || err.Error() != "asset type must not be nil" {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("EmptySlug", func(t *testing.T) {
		if err := dao.Create(ctx, db, &model.AssetType{Name: "No slug"}); err == nil {
			t.Error("Expected error for empty slug")
		}
	})

	t.Run("DuplicateSlug", func(t *testing.T) {
		if err := dao.Create(ctx, db, &model.AssetType{Slug: "monitor", Name: "First"}); err != nil {
			t.Fatalf("First create failed: %v", err)
		}
		if err := dao.Create(ctx, db, &model.AssetType{Slug: "monitor", Name: "Second"}); err == nil {
			t.Error("Expected error for duplicate slug")
		}
	})
}

func TestAssetTypeDAO_GetActiveBySlug(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewAssetTypeDAO()
	ctx := context.Background()

	assetType := CreateTestAssetType(t, db, "software",
		TestField("version", "text", true, 1, ""),
		TestField("vendor", "text", false, 0, ""),
		TestField("seats", "number", false, 1, ""),
		TestField("legacy", "text", false, 0, ""),
	)
	if err := NewFieldDAO().Update(ctx, db, assetType.ID, "legacy", map[string]interface{}{"is_active": false}); err != nil {
		t.Fatalf("deactivate field: %v", err)
	}

	t.Run("ActiveFieldsInOrder", func(t *testing.T) {
		found, err := dao.GetActiveBySlug(ctx, db, "software")
		if err != nil {
			t.Fatalf("GetActiveBySlug failed: %v", err)
		}
		want := []string{"vendor", "version", "seats"}
		if len(found.Fields) != len(want) {
			t.Fatalf("Expected %d fields, got %d", len(want), len(found.Fields))
		}
		for i, key := range want {
			if found.Fields[i].Key != key {
				t.Errorf("field %d: expected %s, got %s", i, key, found.Fields[i].Key)
			}
		}
	})

	t.Run("InactiveType", func(t *testing.T) {
		if err := dao.Update(ctx, db, "software", map[string]interface{}{"is_active": false}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		_, err := dao.GetActiveBySlug(ctx, db, "software")
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Errorf("Expected ErrRecordNotFound, got %v", err)
		}
		if _, err := dao.GetBySlug(ctx, db, "software"); err != nil {
			t.Errorf("Deactivated type must still exist: %v", err)
		}
	})

	t.Run("UnknownSlug", func(t *testing.T) {
		if err := dao.Update(ctx, db, "nope", map[string]interface{}{"name": "x"}); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Errorf("Expected ErrRecordNotFound, got %v", err)
		}
	})
}

func TestFieldDAO_UniquePerType(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	ctx := context.Background()
	dao := NewFieldDAO()

	laptop := CreateTestAssetType(t, db, "laptop", TestField("serial", "text", true, 0, ""))
	phone := CreateTestAssetType(t, db, "phone")

	if err := dao.Create(ctx, db, &model.AssetTypeField{TypeID: phone.ID, Key: "serial", FieldType: "text"}); err != nil {
		t.Fatalf("same key on another type must be allowed: %v", err)
	}
	if err := dao.Create(ctx, db, &model.AssetTypeField{TypeID: laptop.ID, Key: "serial", FieldType: "text"}); err == nil {
		t.Fatal("Expected error for duplicate key within a type")
	}

	exists, err := dao.ExistsByKey(ctx, db, laptop.ID, "serial")
	if err != nil || !exists {
		t.Fatalf("ExistsByKey: exists=%v err=%v", exists, err)
	}
}
