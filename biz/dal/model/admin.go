package model

import "time"

// Admin is an operator account.
type Admin struct {
	ID           uint                   `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	Username     string                 `gorm:"column:username;uniqueIndex:idx_admin_username;size:64;not null" json:"username"`
	PasswordHash string                 `gorm:"column:password_hash;not null" json:"-"`
	Name         string                 `gorm:"column:name;size:128" json:"name"`
	Email        string                 `gorm:"column:email;size:255" json:"email,omitempty"`
	Role         string                 `gorm:"column:role;size:16;not null" json:"role"`
	IsActive     bool                   `gorm:"column:is_active;default:true" json:"is_active"`
	Permissions  []AdminPermissionGrant `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"permissions,omitempty"`
}

// TableName overrides gorm to use admin table.
func (Admin) TableName() string {
	return "admin"
}

// AdminPermissionGrant gives an ADMIN one permission.
type AdminPermissionGrant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	AdminID    uint      `gorm:"column:admin_id;uniqueIndex:idx_admin_permission;not null" json:"admin_id"`
	Permission string    `gorm:"column:permission;uniqueIndex:idx_admin_permission;size:32;not null" json:"permission"`
}

// TableName overrides gorm to use admin_permission table.
func (AdminPermissionGrant) TableName() string {
	return "admin_permission"
}
