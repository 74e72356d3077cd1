package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yi-nology/itam/biz/catalog"
	"github.com/yi-nology/itam/biz/dal/db"
	"github.com/yi-nology/itam/biz/dal/model"
	"github.com/yi-nology/itam/pkg/auth"
	"github.com/yi-nology/itam/pkg/common"
	"github.com/yi-nology/itam/pkg/config"
	"github.com/yi-nology/itam/pkg/storage/local"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dbConn := db.SetupTestDB(t)
	t.Cleanup(func() { db.CleanupTestDB(t, dbConn) })

	store, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return NewService(dbConn, store, config.Default(), tokens, zap.NewNop()), dbConn
}

func asAdmin(admin *model.Admin) context.Context {
	return common.ContextWithPrincipal(context.Background(), &common.Principal{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
	})
}

func mustTypeID(t *testing.T, svc *Service, slug string) uint {
	t.Helper()
	assetType, err := svc.logic.GetAssetType(context.Background(), slug)
	if err != nil {
		t.Fatalf("GetAssetType %s: %v", slug, err)
	}
	return assetType.ID
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }

// createSoftwareType builds the "software" type through the schema service.
func createSoftwareType(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.CreateAssetType(ctx, &AssetTypeInput{Slug: "software", Name: "Software"}); err != nil {
		t.Fatalf("CreateAssetType: %v", err)
	}
	if _, err := svc.AddField(ctx, "software", &FieldInput{
		Key: strPtr("version"), FieldType: strPtr("text"), Required: boolPtr(true), SortOrder: intPtr(1),
	}); err != nil {
		t.Fatalf("AddField version: %v", err)
	}
	if _, err := svc.AddField(ctx, "software", &FieldInput{
		Key: strPtr("expiresAt"), FieldType: strPtr("date"), SortOrder: intPtr(2),
	}); err != nil {
		t.Fatalf("AddField expiresAt: %v", err)
	}
}

func TestImportCSVEndToEnd(t *testing.T) {
	svc, dbConn := newTestService(t)
	createSoftwareType(t, svc)
	admin := db.CreateTestAdmin(t, dbConn, "importer", "ADMIN", "ASSET_CSV_IMPORT")
	ctx := asAdmin(admin)

	csv := "name,version,expiresAt\nAppA,1.0,2024-01-01\nAppB,,bad-date\nAppC,2.0,\n"
	result, err := svc.ImportCSV(ctx, &ImportInput{TypeSlug: "software", FileName: "apps.csv", Data: []byte(csv)})
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if result.SuccessCount != 2 || result.FailCount != 1 {
		t.Fatalf("expected 2 ok / 1 failed, got %d / %d", result.SuccessCount, result.FailCount)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one row error, got %+v", result.Errors)
	}
	rowErr := result.Errors[0]
	if rowErr.Row != 3 || rowErr.Field != "version" || rowErr.Reason != catalog.ReasonMissingRequired {
		t.Fatalf("unexpected row error %+v", rowErr)
	}

	entities, err := svc.ListEntities(context.Background(), EntityQuery{TypeSlug: "software"})
	if err != nil {
		t.Fatalf("ListEntities: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("expected 2 stored entities, got %d", len(entities))
	}
	byTitle := map[string]model.AssetEntity{}
	for _, e := range entities {
		byTitle[e.Title] = e
	}
	appA, ok := byTitle["AppA"]
	if !ok {
		t.Fatalf("AppA not stored")
	}
	if appA.Data["expiresAt"] != "2024-01-01" || appA.Data["version"] != "1.0" {
		t.Fatalf("unexpected AppA data %v", appA.Data)
	}
	if appA.Source != "CSV" || appA.Status != "ACTIVE" {
		t.Fatalf("unexpected AppA source/status %s/%s", appA.Source, appA.Status)
	}
	if appA.CreatedByID == nil || *appA.CreatedByID != admin.ID {
		t.Fatalf("expected AppA attributed to importer")
	}
	appC := byTitle["AppC"]
	if _, present := appC.Data["expiresAt"]; present {
		t.Fatalf("empty optional value must be omitted, got %v", appC.Data)
	}

	records, err := svc.ListImportRecords(context.Background(), "software", 10)
	if err != nil {
		t.Fatalf("ListImportRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one import record, got %d", len(records))
	}
	if records[0].SuccessCount != 2 || records[0].FailCount != 1 || records[0].StorageKey == "" {
		t.Fatalf("unexpected import record %+v", records[0])
	}
	exists, err := svc.storage.ObjectExists(context.Background(), records[0].StorageKey)
	if err != nil || !exists {
		t.Fatalf("expected archived csv at %s: %v", records[0].StorageKey, err)
	}
}

func TestImportCSVSchemaNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.ImportCSV(context.Background(), &ImportInput{
		TypeSlug: "missing",
		Data:     []byte("name\nAppA\n"),
	})
	if !errors.Is(err, catalog.ErrSchemaNotFound) {
		t.Fatalf("expected ErrSchemaNotFound, got %v", err)
	}
	if result != nil {
		t.Fatalf("expected no result, got %+v", result)
	}
	records, err := svc.ListImportRecords(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("ListImportRecords: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("schema miss must not be recorded, got %d", len(records))
	}
}

func TestImportCSVInactiveType(t *testing.T) {
	svc, _ := newTestService(t)
	createSoftwareType(t, svc)
	if err := svc.DeactivateAssetType(context.Background(), "software"); err != nil {
		t.Fatalf("DeactivateAssetType: %v", err)
	}

	_, err := svc.ImportCSV(context.Background(), &ImportInput{
		TypeSlug: "software",
		Data:     []byte("name,version\nAppA,1.0\n"),
	})
	if !errors.Is(err, catalog.ErrSchemaNotFound) {
		t.Fatalf("expected ErrSchemaNotFound for inactive type, got %v", err)
	}
}

func TestImportCSVRejectsInput(t *testing.T) {
	svc, _ := newTestService(t)
	createSoftwareType(t, svc)

	t.Run("empty file", func(t *testing.T) {
		_, err := svc.ImportCSV(context.Background(), &ImportInput{TypeSlug: "software"})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("missing slug", func(t *testing.T) {
		_, err := svc.ImportCSV(context.Background(), &ImportInput{Data: []byte("name\nA\n")})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("zero accepted is not an error", func(t *testing.T) {
		result, err := svc.ImportCSV(context.Background(), &ImportInput{
			TypeSlug: "software",
			Data:     []byte("name,version\nAppA,\n,1.0\n"),
		})
		if err != nil {
			t.Fatalf("ImportCSV: %v", err)
		}
		if result.SuccessCount != 0 || result.FailCount != 2 {
			t.Fatalf("unexpected counts %+v", result)
		}
		if result.Errors[1].Row != 3 || result.Errors[1].Reason != catalog.ReasonMissingTitle {
			t.Fatalf("unexpected second error %+v", result.Errors[1])
		}
	})
}

func TestSchemaAdministration(t *testing.T) {
	svc, dbConn := newTestService(t)
	createSoftwareType(t, svc)
	ctx := context.Background()

	t.Run("duplicate slug", func(t *testing.T) {
		_, err := svc.CreateAssetType(ctx, &AssetTypeInput{Slug: "software", Name: "Again"})
		if !errors.Is(err, ErrAssetTypeSlugExists) {
			t.Fatalf("expected ErrAssetTypeSlugExists, got %v", err)
		}
	})

	t.Run("reserved key", func(t *testing.T) {
		_, err := svc.AddField(ctx, "software", &FieldInput{Key: strPtr("title"), FieldType: strPtr("text")})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}

		for _, key := range []string{"status", "name"} {
			_, err = svc.UpdateField(ctx, "software", "version", &FieldInput{Key: strPtr(key)})
			if !errors.As(err, &ve) {
				t.Fatalf("rename to %q: expected ValidationError, got %v", key, err)
			}
		}
		if _, err := svc.logic.GetField(ctx, mustTypeID(t, svc, "software"), "version"); err != nil {
			t.Fatalf("field should keep its key: %v", err)
		}
	})

	t.Run("unknown field type", func(t *testing.T) {
		_, err := svc.AddField(ctx, "software", &FieldInput{Key: strPtr("rating"), FieldType: strPtr("stars")})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("options on non-select", func(t *testing.T) {
		opts := datatypes.JSON(`["a","b"]`)
		_, err := svc.AddField(ctx, "software", &FieldInput{
			Key: strPtr("tier"), FieldType: strPtr("text"), OptionsJSON: &opts,
		})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("describe orders fields", func(t *testing.T) {
		desc, err := svc.DescribeSchema(ctx, "software")
		if err != nil {
			t.Fatalf("DescribeSchema: %v", err)
		}
		if len(desc.Fields) != 2 || desc.Fields[0].Key != "version" || desc.Fields[1].Key != "expiresAt" {
			t.Fatalf("unexpected fields %+v", desc.Fields)
		}
	})

	t.Run("key rename refused once entities exist", func(t *testing.T) {
		if _, err := svc.UpdateField(ctx, "software", "version", &FieldInput{Key: strPtr("release")}); err != nil {
			t.Fatalf("rename on empty type: %v", err)
		}
		assetType, err := svc.logic.GetAssetType(ctx, "software")
		if err != nil {
			t.Fatalf("GetAssetType: %v", err)
		}
		entity := &model.AssetEntity{TypeID: assetType.ID, Title: "AppA", Status: "ACTIVE", Source: "MANUAL"}
		if err := dbConn.Create(entity).Error; err != nil {
			t.Fatalf("create entity: %v", err)
		}
		_, err = svc.UpdateField(ctx, "software", "release", &FieldInput{Key: strPtr("version")})
		if !errors.Is(err, ErrFieldKeyImmutable) {
			t.Fatalf("expected ErrFieldKeyImmutable, got %v", err)
		}
	})

	t.Run("deactivated field leaves schema", func(t *testing.T) {
		if err := svc.DeactivateField(ctx, "software", "expiresAt"); err != nil {
			t.Fatalf("DeactivateField: %v", err)
		}
		schema, err := svc.GetActiveSchema(ctx, "software")
		if err != nil {
			t.Fatalf("GetActiveSchema: %v", err)
		}
		for _, f := range schema.Fields {
			if f.Key == "expiresAt" {
				t.Fatalf("inactive field still in schema")
			}
		}
	})
}
