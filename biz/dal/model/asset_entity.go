package model

import (
	"time"

	"gorm.io/datatypes"
)

// AssetEntity is one tracked item of an AssetType. Data holds the validated
// field values keyed by field key.
type AssetEntity struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time         `gorm:"index:idx_entity_created" json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	TypeID      uint              `gorm:"column:type_id;index:idx_entity_type;not null" json:"type_id"`
	Type        *AssetType        `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	Title       string            `gorm:"column:title;size:255;not null" json:"title"`
	Status      string            `gorm:"column:status;size:32" json:"status"`
	Data        datatypes.JSONMap `gorm:"column:data" json:"data"`
	CreatedByID *uint             `gorm:"column:created_by_id;index" json:"created_by_id,omitempty"`
	CreatedBy   *Admin            `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
	Source      string            `gorm:"column:source;size:16" json:"source"`
}

// TableName overrides gorm to use asset_entity table.
func (AssetEntity) TableName() string {
	return "asset_entity"
}

// Attachment stores metadata for files attached to an entity.
type Attachment struct {
	ID          uint      `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
	FileID      string    `gorm:"column:file_id;uniqueIndex:idx_attachment_file" json:"file_id,omitempty"`
	EntityID    uint      `gorm:"column:entity_id;index:idx_attachment_entity" json:"entity_id,omitempty"`
	FileName    string    `gorm:"column:file_name" json:"file_name,omitempty"`
	ContentType string    `gorm:"column:content_type" json:"content_type,omitempty"`
	FileSize    int64     `gorm:"column:file_size" json:"file_size,omitempty"`
	Path        string    `gorm:"column:path;type:text" json:"-"`
	URL         string    `gorm:"column:url;type:text" json:"url,omitempty"`
	Remark      string    `gorm:"column:remark;type:varchar(512)" json:"remark,omitempty"`
}

// TableName overrides gorm to use attachment table.
func (Attachment) TableName() string {
	return "attachment"
}

// ImportRecord audits one CSV ingestion run.
type ImportRecord struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	TypeSlug     string         `gorm:"column:type_slug;size:64;index" json:"type_slug"`
	FileName     string         `gorm:"column:file_name" json:"file_name"`
	StorageKey   string         `gorm:"column:storage_key;type:text" json:"storage_key,omitempty"`
	SuccessCount int            `gorm:"column:success_count" json:"success_count"`
	FailCount    int            `gorm:"column:fail_count" json:"fail_count"`
	Errors       datatypes.JSON `gorm:"column:errors" json:"errors,omitempty"`
	CreatedByID  *uint          `gorm:"column:created_by_id" json:"created_by_id,omitempty"`
}

// TableName overrides gorm to use import_record table.
func (ImportRecord) TableName() string {
	return "import_record"
}
