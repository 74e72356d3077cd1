package constants

// Admin roles.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
)

// Permissions grantable to ADMIN accounts. SUPER_ADMIN implicitly holds all of them.
const (
	PermissionAssetCSVImport  = "ASSET_CSV_IMPORT"
	PermissionAssetTypeManage = "ASSET_TYPE_MANAGE"
	PermissionAdminManage     = "ADMIN_MANAGE"
)

// AllPermissions lists every grantable permission.
var AllPermissions = []string{
	PermissionAssetCSVImport,
	PermissionAssetTypeManage,
	PermissionAdminManage,
}

// IsPermission reports whether p is a known permission.
func IsPermission(p string) bool {
	return OneOf(p, AllPermissions)
}

// Entity sources.
const (
	SourceCSV    = "CSV"
	SourceManual = "MANUAL"
)

// DefaultEntityStatus is used when an imported row carries no status.
const DefaultEntityStatus = "ACTIVE"

// Software license categories.
const (
	CategorySaaS         = "SAAS"
	CategoryLicense      = "LICENSE"
	CategorySubscription = "SUBSCRIPTION"
	CategoryOther        = "OTHER"
)

// Software license statuses.
const (
	LicenseActive   = "ACTIVE"
	LicenseInactive = "INACTIVE"
	LicenseOnHold   = "ON_HOLD"
	LicenseDisposed = "DISPOSED"
)

// Billing cycles.
const (
	BillingMonthly = "MONTHLY"
	BillingYearly  = "YEARLY"
	BillingOneTime = "ONE_TIME"
)

// DefaultCompanyName seeds the brand row.
const DefaultCompanyName = "IT Asset Manager"

// BrandLogoRoute serves the uploaded brand logo, relative to the base path.
const BrandLogoRoute = "/api/v1/brand/logo"

// DefaultCurrency applies when a license is created without a currency.
const DefaultCurrency = "KRW"

// Notification rules.
const (
	RuleD30 = "D30"
	RuleD7  = "D7"
)

var (
	Categories    = []string{CategorySaaS, CategoryLicense, CategorySubscription, CategoryOther}
	LicenseStates = []string{LicenseActive, LicenseInactive, LicenseOnHold, LicenseDisposed}
	BillingCycles = []string{BillingMonthly, BillingYearly, BillingOneTime}
	Currencies    = []string{"KRW", "USD", "EUR", "JPY"}
)

// OneOf reports whether v is contained in set.
func OneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
