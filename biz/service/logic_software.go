package service

import (
	"context"
	"time"

	"github.com/yi-nology/itam/biz/dal/model"
)

// --------------------- Software License Operations ---------------------

func (l *Logic) ListSoftware(ctx context.Context, status string) ([]model.SoftwareAsset, error) {
	return l.softwareDAO.List(ctx, l.db, status)
}

func (l *Logic) GetSoftware(ctx context.Context, id uint) (*model.SoftwareAsset, error) {
	asset, err := l.softwareDAO.GetByID(ctx, l.db, id)
	if err != nil {
		return nil, notFound(err, ErrLicenseNotFound)
	}
	return asset, nil
}

func (l *Logic) CreateSoftware(ctx context.Context, asset *model.SoftwareAsset) error {
	return l.softwareDAO.Create(ctx, l.db, asset)
}

func (l *Logic) UpdateSoftware(ctx context.Context, id uint, updates map[string]interface{}) (*model.SoftwareAsset, error) {
	if err := l.softwareDAO.Update(ctx, l.db, id, updates); err != nil {
		return nil, notFound(err, ErrLicenseNotFound)
	}
	return l.GetSoftware(ctx, id)
}

func (l *Logic) DeleteSoftware(ctx context.Context, id uint) error {
	return notFound(l.softwareDAO.Delete(ctx, l.db, id), ErrLicenseNotFound)
}

// OwnedSoftware returns the license only when ownerID owns it.
func (l *Logic) OwnedSoftware(ctx context.Context, id, ownerID uint) (*model.SoftwareAsset, error) {
	asset, err := l.GetSoftware(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.OwnerAdminID != ownerID {
		return nil, ErrLicenseNotFound
	}
	return asset, nil
}

func (l *Logic) ListExpiring(ctx context.Context, ownerID uint, status string, from, to time.Time) ([]model.SoftwareAsset, error) {
	return l.softwareDAO.ListExpiring(ctx, l.db, ownerID, status, from, to)
}

func (l *Logic) CountActiveAssignments(ctx context.Context, assetID uint) (int64, error) {
	return l.assignmentDAO.CountActive(ctx, l.db, assetID)
}

func (l *Logic) CreateAssignment(ctx context.Context, assignment *model.AssetAssignment) error {
	return l.assignmentDAO.Create(ctx, l.db, assignment)
}

func (l *Logic) SetAssignmentReturned(ctx context.Context, assetID, id uint, returnedAt *time.Time) (*model.AssetAssignment, error) {
	assignment, err := l.assignmentDAO.GetByID(ctx, l.db, assetID, id)
	if err != nil {
		return nil, notFound(err, ErrAssignmentNotFound)
	}
	if err := l.assignmentDAO.SetReturnedAt(ctx, l.db, assignment.ID, returnedAt); err != nil {
		return nil, err
	}
	assignment.ReturnedAt = returnedAt
	return assignment, nil
}

func (l *Logic) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	return l.vendorDAO.List(ctx, l.db)
}

func (l *Logic) ListDepartments(ctx context.Context) ([]model.Department, error) {
	return l.departmentDAO.List(ctx, l.db)
}

func (l *Logic) EnsureVendor(ctx context.Context, name string) (*model.Vendor, error) {
	return l.vendorDAO.FirstOrCreate(ctx, l.db, name)
}

func (l *Logic) EnsureDepartment(ctx context.Context, name string) (*model.Department, error) {
	return l.departmentDAO.FirstOrCreate(ctx, l.db, name)
}

// --------------------- Notification Log Operations ---------------------

func (l *Logic) SentNotificationPairs(ctx context.Context, assetIDs []uint, day string) (map[uint]map[string]bool, error) {
	return l.notificationDAO.SentPairs(ctx, l.db, assetIDs, day)
}

func (l *Logic) CreateNotificationLogs(ctx context.Context, logs []model.NotificationLog) (int64, error) {
	return l.notificationDAO.CreateMany(ctx, l.db, logs)
}

func (l *Logic) ListNotificationLogs(ctx context.Context, ownerID uint, since time.Time, limit int) ([]model.NotificationLog, error) {
	return l.notificationDAO.ListSince(ctx, l.db, ownerID, since, limit)
}
