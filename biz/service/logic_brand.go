package service

import (
	"context"

	"github.com/yi-nology/itam/biz/dal/model"
	"github.com/yi-nology/itam/pkg/constants"
)

// --------------------- Brand Operations ---------------------

func (l *Logic) GetBrand(ctx context.Context) (*model.AppBrand, error) {
	return l.brandDAO.Get(ctx, l.db, constants.DefaultCompanyName)
}

func (l *Logic) UpdateBrand(ctx context.Context, updates map[string]interface{}) (*model.AppBrand, error) {
	if _, err := l.GetBrand(ctx); err != nil {
		return nil, err
	}
	return l.brandDAO.Update(ctx, l.db, updates)
}
