package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yi-nology/itam/biz/dal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestEntityDAO_CreateMany(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewEntityDAO()
	ctx := context.Background()
	laptop := CreateTestAssetType(t, db, "laptop")

	t.Run("Success", func(t *testing.T) {
		entities := []model.AssetEntity{
			{TypeID: laptop.ID, Title: "X1", Status: "ACTIVE", Data: datatypes.JSONMap{"serial": "A1"}, Source: "CSV"},
			{TypeID: laptop.ID, Title: "X2", Status: "ACTIVE", Data: datatypes.JSONMap{}, Source: "CSV"},
		}
		n, err := dao.CreateMany(ctx, db, entities)
		if err != nil {
			t.Fatalf("CreateMany failed: %v", err)
		}
		if n != 2 {
			t.Errorf("Expected 2 rows written, got %d", n)
		}
		count, _ := dao.CountByType(ctx, db, laptop.ID)
		if count != 2 {
			t.Errorf("Expected 2 stored entities, got %d", count)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		n, err := dao.CreateMany(ctx, db, nil)
		if err != nil || n != 0 {
			t.Fatalf("Expected no-op, got n=%d err=%v", n, err)
		}
	})

	t.Run("AllOrNothing", func(t *testing.T) {
		before, _ := dao.CountByType(ctx, db, laptop.ID)
		entities := []model.AssetEntity{
			{ID: 9001, TypeID: laptop.ID, Title: "ok", Data: datatypes.JSONMap{}},
			{ID: 9001, TypeID: laptop.ID, Title: "duplicate primary key", Data: datatypes.JSONMap{}},
		}
		if _, err := dao.CreateMany(ctx, db, entities); err == nil {
			t.Fatal("Expected error for conflicting rows")
		}
		after, _ := dao.CountByType(ctx, db, laptop.ID)
		if after != before {
			t.Errorf("Expected no rows written on failure, before=%d after=%d", before, after)
		}
	})

	t.Run("AllOrNothingAcrossBatches", func(t *testing.T) {
		before, _ := dao.CountByType(ctx, db, laptop.ID)
		total := createBatchSize + createBatchSize/2
		entities := make([]model.AssetEntity, 0, total)
		for i := 0; i < total; i++ {
			entities = append(entities, model.AssetEntity{
				ID: uint(20000 + i), TypeID: laptop.ID, Title: fmt.Sprintf("bulk %d", i), Data: datatypes.JSONMap{},
			})
		}
		// the second batch repeats a key already written by the first
		entities[createBatchSize+10].ID = entities[0].ID

		if _, err := dao.CreateMany(ctx, db, entities); err == nil {
			t.Fatal("Expected error for conflicting rows")
		}
		after, _ := dao.CountByType(ctx, db, laptop.ID)
		if after != before {
			t.Errorf("Expected first batch rolled back, before=%d after=%d", before, after)
		}
		if _, err := dao.GetByID(ctx, db, entities[1].ID); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Errorf("Expected first-batch row to be absent, got %v", err)
		}
	})
}

func TestEntityDAO_UpdateAndDelete(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewEntityDAO()
	ctx := context.Background()
	laptop := CreateTestAssetType(t, db, "laptop")

	entity := &model.AssetEntity{TypeID: laptop.ID, Title: "X1", Status: "ACTIVE", Data: datatypes.JSONMap{"serial": "A1"}}
	if err := dao.Create(ctx, db, entity); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("Update", func(t *testing.T) {
		updated, err := dao.Update(ctx, db, entity.ID, map[string]interface{}{
			"title": "X1 Carbon",
			"data":  datatypes.JSONMap{"serial": "B2"},
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Title != "X1 Carbon" || updated.Data["serial"] != "B2" {
			t.Errorf("Unexpected entity after update: %+v", updated)
		}
		if updated.Type == nil || updated.Type.Slug != "laptop" {
			t.Errorf("Expected type to be preloaded")
		}
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		_, err := dao.Update(ctx, db, 424242, map[string]interface{}{"title": "x"})
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Errorf("Expected ErrRecordNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := dao.Delete(ctx, db, entity.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := dao.Delete(ctx, db, entity.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Errorf("Expected ErrRecordNotFound on second delete, got %v", err)
		}
	})
}

func TestEntityDAO_List(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewEntityDAO()
	ctx := context.Background()
	laptop := CreateTestAssetType(t, db, "laptop")
	phone := CreateTestAssetType(t, db, "phone")

	var seed []model.AssetEntity
	for i := 0; i < 3; i++ {
		seed = append(seed, model.AssetEntity{TypeID: laptop.ID, Title: fmt.Sprintf("ThinkPad %d", i), Data: datatypes.JSONMap{}})
	}
	seed = append(seed, model.AssetEntity{TypeID: phone.ID, Title: "Galaxy", Data: datatypes.JSONMap{}})
	if _, err := dao.CreateMany(ctx, db, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	t.Run("ByType", func(t *testing.T) {
		list, err := dao.List(ctx, db, EntityFilter{TypeSlug: "laptop"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(list) != 3 {
			t.Fatalf("Expected 3 laptops, got %d", len(list))
		}
		if list[0].Title != "ThinkPad 2" {
			t.Errorf("Expected newest first, got %s", list[0].Title)
		}
	})

	t.Run("ByQuery", func(t *testing.T) {
		list, err := dao.List(ctx, db, EntityFilter{Query: "gal"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(list) != 1 || list[0].Title != "Galaxy" {
			t.Fatalf("Unexpected result %+v", list)
		}
	})

	t.Run("Limit", func(t *testing.T) {
		list, err := dao.List(ctx, db, EntityFilter{Limit: 2})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("Expected 2 entities, got %d", len(list))
		}
	})
}

func TestClampLimit(t *testing.T) {
	cases := map[int]int{-1: 200, 0: 200, 1: 1, 200: 200, 500: 500, 501: 500}
	for in, want := range cases {
		if got := ClampLimit(in); got != want {
			t.Errorf("ClampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
