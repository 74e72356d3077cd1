package service

import (
	"context"
	"errors"

	"github.com/yi-nology/itam/biz/catalog"
	"github.com/yi-nology/itam/biz/dal/db"
	"github.com/yi-nology/itam/biz/dal/model"
	"github.com/yi-nology/itam/pkg/auth"
	"github.com/yi-nology/itam/pkg/constants"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminName     = "Administrator"
	DefaultAdminEmail    = "admin@example.com"
)

// SeedOptions controls EnsureDefaults.
type SeedOptions struct {
	AdminPassword string
	// SampleTypes also creates the built-in asset types.
	SampleTypes bool
}

type seedType struct {
	slug   string
	name   string
	fields []model.AssetTypeField
}

var sampleTypes = []seedType{
	{
		slug: "software",
		name: "Software",
		fields: []model.AssetTypeField{
			{Key: "vendor", Label: "Vendor", FieldType: string(catalog.FieldText), SortOrder: 1},
			{Key: "seats", Label: "Seats", FieldType: string(catalog.FieldNumber), SortOrder: 2},
			{Key: "expiry_date", Label: "Expiry date", FieldType: string(catalog.FieldDate), Required: true, SortOrder: 3},
			{Key: "billing", Label: "Billing", FieldType: string(catalog.FieldSelect), SortOrder: 4,
				OptionsJSON: datatypes.JSON(`["monthly","yearly","one_time"]`)},
			{Key: "auto_renew", Label: "Auto renew", FieldType: string(catalog.FieldBoolean), SortOrder: 5},
		},
	},
	{
		slug: "hardware",
		name: "Hardware",
		fields: []model.AssetTypeField{
			{Key: "serial_number", Label: "Serial number", FieldType: string(catalog.FieldText), Required: true, SortOrder: 1},
			{Key: "purchase_date", Label: "Purchase date", FieldType: string(catalog.FieldDate), SortOrder: 2},
			{Key: "os", Label: "OS", FieldType: string(catalog.FieldSelect), SortOrder: 3,
				OptionsJSON: datatypes.JSON(`[{"label":"Windows","value":"windows"},{"label":"macOS","value":"macos"},{"label":"Linux","value":"linux"}]`)},
			{Key: "notes", Label: "Notes", FieldType: string(catalog.FieldTextarea), SortOrder: 4},
		},
	},
}

// EnsureDefaults creates the first SUPER_ADMIN when no admin exists and,
// optionally, the sample asset types. Existing rows are left untouched.
// It can run before a Service is created.
func EnsureDefaults(ctx context.Context, dbConn *gorm.DB, opts SeedOptions, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	adminDAO := db.NewAdminDAO()
	typeDAO := db.NewAssetTypeDAO()

	count, err := adminDAO.Count(ctx, dbConn)
	if err != nil {
		return err
	}
	if count == 0 {
		if opts.AdminPassword == "" {
			return errors.New("no admin exists and no admin password was given")
		}
		hash, err := auth.HashPassword(opts.AdminPassword)
		if err != nil {
			return err
		}
		admin := &model.Admin{
			Username:     DefaultAdminUsername,
			PasswordHash: hash,
			Name:         DefaultAdminName,
			Email:        DefaultAdminEmail,
			Role:         constants.RoleSuperAdmin,
			IsActive:     true,
		}
		if err := adminDAO.Create(ctx, dbConn, admin); err != nil {
			return err
		}
		logger.Info("created default admin", zap.String("username", DefaultAdminUsername))
	}

	if !opts.SampleTypes {
		return nil
	}
	for _, st := range sampleTypes {
		exists, err := typeDAO.ExistsBySlug(ctx, dbConn, st.slug)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		assetType := &model.AssetType{
			Slug:     st.slug,
			Name:     st.name,
			IsActive: true,
			Fields:   append([]model.AssetTypeField(nil), st.fields...),
		}
		for i := range assetType.Fields {
			assetType.Fields[i].IsActive = true
		}
		if err := typeDAO.Create(ctx, dbConn, assetType); err != nil {
			return err
		}
		logger.Info("created sample asset type", zap.String("slug", st.slug))
	}
	return nil
}
