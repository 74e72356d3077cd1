package db

import (
	"context"
	"errors"
	"testing"

	"github.com/yi-nology/itam/biz/dal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestAdminDAO_Permissions(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewAdminDAO()
	ctx := context.Background()

	admin := CreateTestAdmin(t, db, "kim", "ADMIN", "ASSET_CSV_IMPORT")

	t.Run("HasPermission", func(t *testing.T) {
		ok, err := dao.HasPermission(ctx, db, admin.ID, "ASSET_CSV_IMPORT")
		if err != nil || !ok {
			t.Fatalf("expected grant, ok=%v err=%v", ok, err)
		}
		ok, err = dao.HasPermission(ctx, db, admin.ID, "ADMIN_MANAGE")
		if err != nil || ok {
			t.Fatalf("unexpected grant, ok=%v err=%v", ok, err)
		}
	})

	t.Run("Replace", func(t *testing.T) {
		if err := dao.ReplacePermissions(ctx, db, admin.ID, []string{"ASSET_TYPE_MANAGE", "ADMIN_MANAGE"}); err != nil {
			t.Fatalf("ReplacePermissions failed: %v", err)
		}
		found, err := dao.GetByID(ctx, db, admin.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if len(found.Permissions) != 2 {
			t.Fatalf("Expected 2 grants, got %d", len(found.Permissions))
		}
		ok, _ := dao.HasPermission(ctx, db, admin.ID, "ASSET_CSV_IMPORT")
		if ok {
			t.Error("Old grant should be removed")
		}
	})

	t.Run("ReplaceWithNone", func(t *testing.T) {
		if err := dao.ReplacePermissions(ctx, db, admin.ID, nil); err != nil {
			t.Fatalf("ReplacePermissions failed: %v", err)
		}
		found, _ := dao.GetByID(ctx, db, admin.ID)
		if len(found.Permissions) != 0 {
			t.Errorf("Expected no grants, got %d", len(found.Permissions))
		}
	})
}

func TestAdminDAO_UsernameUnique(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	ctx := context.Background()
	dao := NewAdminDAO()

	CreateTestAdmin(t, db, "root", "SUPER_ADMIN")
	if err := dao.Create(ctx, db, &model.Admin{Username: "root", PasswordHash: "x", Role: "ADMIN"}); err == nil {
		t.Fatal("Expected error for duplicate username")
	}
	exists, err := dao.ExistsByUsername(ctx, db, "root")
	if err != nil || !exists {
		t.Fatalf("ExistsByUsername: exists=%v err=%v", exists, err)
	}
	if _, err := dao.GetByUsername(ctx, db, "nobody"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}
}

func TestAdminDAO_DeleteKeepsEntities(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	ctx := context.Background()

	admin := CreateTestAdmin(t, db, "temp", "ADMIN", "ASSET_CSV_IMPORT")
	laptop := CreateTestAssetType(t, db, "laptop")
	entity := &model.AssetEntity{TypeID: laptop.ID, Title: "X1", Data: datatypes.JSONMap{}, CreatedByID: &admin.ID}
	if err := NewEntityDAO().Create(ctx, db, entity); err != nil {
		t.Fatalf("Create entity: %v", err)
	}

	if err := NewAdminDAO().Delete(ctx, db, admin.ID); err != nil {
		t.Fatalf("Delete admin: %v", err)
	}
	found, err := NewEntityDAO().GetByID(ctx, db, entity.ID)
	if err != nil {
		t.Fatalf("entity must survive its creator: %v", err)
	}
	if found.CreatedByID != nil {
		t.Errorf("Expected creator to be cleared, got %v", *found.CreatedByID)
	}
}
