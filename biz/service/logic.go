package service

import (
	"errors"

	"github.com/yi-nology/itam/biz/dal/db"
	"gorm.io/gorm"
)

var (
	ErrEntityNotFound      = errors.New("asset not found")
	ErrAssetTypeNotFound   = errors.New("asset type not found")
	ErrAssetTypeSlugExists = errors.New("asset type slug already exists")
	ErrFieldNotFound       = errors.New("field not found")
	ErrFieldKeyExists      = errors.New("field key already exists for this asset type")
	ErrFieldKeyImmutable   = errors.New("field key cannot change once assets of this type exist")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrAdminNotFound       = errors.New("admin not found")
	ErrAdminInactive       = errors.New("admin account is inactive")
	ErrForbidden           = errors.New("permission denied")
	ErrUsernameExists      = errors.New("username already exists")
	ErrLicenseNotFound     = errors.New("software license not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrNoSeatsAvailable    = errors.New("no seats available")
	ErrAttachmentNotFound  = errors.New("attachment not found")
)

// ValidationError reports invalid caller input. Handlers map it to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// Logic contains business rules on top of data persistence.
type Logic struct {
	db              *gorm.DB
	assetTypeDAO    *db.AssetTypeDAO
	fieldDAO        *db.FieldDAO
	entityDAO       *db.EntityDAO
	attachmentDAO   *db.AttachmentDAO
	importRecordDAO *db.ImportRecordDAO
	adminDAO        *db.AdminDAO
	softwareDAO     *db.SoftwareDAO
	assignmentDAO   *db.AssignmentDAO
	vendorDAO       *db.VendorDAO
	departmentDAO   *db.DepartmentDAO
	notificationDAO *db.NotificationDAO
	brandDAO        *db.BrandDAO
}

func NewLogic(dbConn *gorm.DB) *Logic {
	return &Logic{
		db:              dbConn,
		assetTypeDAO:    db.NewAssetTypeDAO(),
		fieldDAO:        db.NewFieldDAO(),
		entityDAO:       db.NewEntityDAO(),
		attachmentDAO:   db.NewAttachmentDAO(),
		importRecordDAO: db.NewImportRecordDAO(),
		adminDAO:        db.NewAdminDAO(),
		softwareDAO:     db.NewSoftwareDAO(),
		assignmentDAO:   db.NewAssignmentDAO(),
		vendorDAO:       db.NewVendorDAO(),
		departmentDAO:   db.NewDepartmentDAO(),
		notificationDAO: db.NewNotificationDAO(),
		brandDAO:        db.NewBrandDAO(),
	}
}

// notFound maps gorm.ErrRecordNotFound to the given domain error.
func notFound(err error, domain error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain
	}
	return err
}
