package model

import "time"

// BrandID is the primary key of the only AppBrand row.
const BrandID uint = 1

// AppBrand holds the company name and logo shown in the UI header.
type AppBrand struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	CompanyName string    `gorm:"column:company_name;size:128;not null" json:"companyName"`
	LogoURL     string    `gorm:"column:logo_url;size:512" json:"logoUrl"`
	LogoKey     string    `gorm:"column:logo_key;size:512" json:"-"`
	LogoType    string    `gorm:"column:logo_type;size:128" json:"-"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName overrides gorm to use app_brand table.
func (AppBrand) TableName() string {
	return "app_brand"
}
