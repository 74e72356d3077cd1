package service

import (
	"context"

	"github.com/yi-nology/itam/biz/dal/model"
)

// --------------------- Admin Operations ---------------------

func (l *Logic) GetAdmin(ctx context.Context, id uint) (*model.Admin, error) {
	admin, err := l.adminDAO.GetByID(ctx, l.db, id)
	if err != nil {
		return nil, notFound(err, ErrAdminNotFound)
	}
	return admin, nil
}

func (l *Logic) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	admin, err := l.adminDAO.GetByUsername(ctx, l.db, username)
	if err != nil {
		return nil, notFound(err, ErrAdminNotFound)
	}
	return admin, nil
}

func (l *Logic) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	return l.adminDAO.List(ctx, l.db)
}

func (l *Logic) CountAdmins(ctx context.Context) (int64, error) {
	return l.adminDAO.Count(ctx, l.db)
}

func (l *Logic) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	exists, err := l.adminDAO.ExistsByUsername(ctx, l.db, admin.Username)
	if err != nil {
		return err
	}
	if exists {
		return ErrUsernameExists
	}
	return l.adminDAO.Create(ctx, l.db, admin)
}

func (l *Logic) UpdateAdmin(ctx context.Context, id uint, updates map[string]interface{}) (*model.Admin, error) {
	if err := l.adminDAO.Update(ctx, l.db, id, updates); err != nil {
		return nil, notFound(err, ErrAdminNotFound)
	}
	return l.GetAdmin(ctx, id)
}

func (l *Logic) ReplacePermissions(ctx context.Context, id uint, permissions []string) error {
	return l.adminDAO.ReplacePermissions(ctx, l.db, id, permissions)
}

func (l *Logic) HasPermission(ctx context.Context, id uint, permission string) (bool, error) {
	return l.adminDAO.HasPermission(ctx, l.db, id, permission)
}
