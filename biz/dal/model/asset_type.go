package model

import (
	"time"

	"gorm.io/datatypes"
)

// AssetType is an admin-defined category of tracked assets. It is never hard-deleted.
type AssetType struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Slug      string           `gorm:"column:slug;uniqueIndex:idx_asset_type_slug;size:64;not null" json:"slug"`
	Name      string           `gorm:"column:name;size:128;not null" json:"name"`
	IsActive  bool             `gorm:"column:is_active;default:true" json:"is_active"`
	SortOrder int              `gorm:"column:sort_order;default:0" json:"sort_order"`
	Fields    []AssetTypeField `gorm:"foreignKey:TypeID" json:"fields,omitempty"`
}

// TableName overrides gorm to use asset_type table.
func (AssetType) TableName() string {
	return "asset_type"
}

// AssetTypeField declares one attribute of an AssetType.
type AssetTypeField struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	TypeID      uint           `gorm:"column:type_id;uniqueIndex:idx_type_field_key;not null" json:"type_id"`
	Key         string         `gorm:"column:field_key;uniqueIndex:idx_type_field_key;size:64;not null" json:"key"`
	Label       string         `gorm:"column:label;size:128" json:"label"`
	FieldType   string         `gorm:"column:field_type;size:16;not null" json:"field_type"`
	Required    bool           `gorm:"column:required;default:false" json:"required"`
	OptionsJSON datatypes.JSON `gorm:"column:options_json" json:"options_json,omitempty"`
	SortOrder   int            `gorm:"column:sort_order;default:0" json:"sort_order"`
	IsActive    bool           `gorm:"column:is_active;default:true" json:"is_active"`
}

// TableName overrides gorm to use asset_type_field table.
func (AssetTypeField) TableName() string {
	return "asset_type_field"
}
