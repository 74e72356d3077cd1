package model

import "time"

// Vendor supplies software licenses.
type Vendor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"column:name;uniqueIndex:idx_vendor_name;size:128;not null" json:"name"`
}

// TableName overrides gorm to use vendor table.
func (Vendor) TableName() string {
	return "vendor"
}

// Department owns software licenses.
type Department struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"column:name;uniqueIndex:idx_department_name;size:128;not null" json:"name"`
}

// TableName overrides gorm to use department table.
func (Department) TableName() string {
	return "department"
}

// SoftwareAsset is a tracked software license or subscription.
type SoftwareAsset struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Name         string            `gorm:"column:name;size:255;not null" json:"name"`
	Category     string            `gorm:"column:category;size:16;not null" json:"category"`
	Status       string            `gorm:"column:status;size:16;index:idx_software_status_expiry" json:"status"`
	ExpiryDate   time.Time         `gorm:"column:expiry_date;index:idx_software_status_expiry" json:"expiry_date"`
	PurchaseDate *time.Time        `gorm:"column:purchase_date" json:"purchase_date,omitempty"`
	SeatsTotal   *int              `gorm:"column:seats_total" json:"seats_total,omitempty"`
	Cost         *float64          `gorm:"column:cost" json:"cost,omitempty"`
	Currency     string            `gorm:"column:currency;size:8" json:"currency"`
	BillingCycle string            `gorm:"column:billing_cycle;size:16" json:"billing_cycle"`
	Description  string            `gorm:"column:description;type:text" json:"description,omitempty"`
	OwnerAdminID uint              `gorm:"column:owner_admin_id;index" json:"owner_admin_id"`
	VendorID     *uint             `gorm:"column:vendor_id" json:"vendor_id,omitempty"`
	Vendor       *Vendor           `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	DepartmentID *uint             `gorm:"column:department_id" json:"department_id,omitempty"`
	Department   *Department       `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Assignments  []AssetAssignment `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
}

// TableName overrides gorm to use software_asset table.
func (SoftwareAsset) TableName() string {
	return "software_asset"
}

// AssetAssignment hands one seat of a SoftwareAsset to a person.
type AssetAssignment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	AssetID    uint       `gorm:"column:asset_id;index;not null" json:"asset_id"`
	UserName   string     `gorm:"column:user_name;size:128;not null" json:"user_name"`
	UserEmail  string     `gorm:"column:user_email;size:255;not null" json:"user_email"`
	Notes      string     `gorm:"column:notes;type:text" json:"notes,omitempty"`
	AssignedAt time.Time  `gorm:"column:assigned_at" json:"assigned_at"`
	ReturnedAt *time.Time `gorm:"column:returned_at" json:"returned_at,omitempty"`
}

// TableName overrides gorm to use asset_assignment table.
func (AssetAssignment) TableName() string {
	return "asset_assignment"
}

// NotificationLog records one expiry reminder. SentDay keeps one row per rule per day.
type NotificationLog struct {
	ID      uint           `gorm:"primaryKey" json:"id"`
	AssetID uint           `gorm:"column:asset_id;uniqueIndex:idx_notification_once;not null" json:"asset_id"`
	Asset   *SoftwareAsset `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"asset,omitempty"`
	Rule    string         `gorm:"column:rule;uniqueIndex:idx_notification_once;size:8;not null" json:"rule"`
	SentDay string         `gorm:"column:sent_day;uniqueIndex:idx_notification_once;size:10;not null" json:"sent_day"`
	SentAt  time.Time      `gorm:"column:sent_at;index" json:"sent_at"`
}

// TableName overrides gorm to use notification_log table.
func (NotificationLog) TableName() string {
	return "notification_log"
}
