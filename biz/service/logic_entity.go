package service

import (
	"context"

	"github.com/yi-nology/itam/biz/catalog"
	"github.com/yi-nology/itam/biz/dal/db"
	"github.com/yi-nology/itam/biz/dal/model"
	"github.com/yi-nology/itam/pkg/common"
	"github.com/yi-nology/itam/pkg/constants"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// --------------------- Entity Operations ---------------------

func (l *Logic) ListEntities(ctx context.Context, filter db.EntityFilter) ([]model.AssetEntity, error) {
	return l.entityDAO.List(ctx, l.db, filter)
}

func (l *Logic) GetEntity(ctx context.Context, id uint) (*model.AssetEntity, error) {
	entity, err := l.entityDAO.GetByID(ctx, l.db, id)
	if err != nil {
		return nil, notFound(err, ErrEntityNotFound)
	}
	return entity, nil
}

func (l *Logic) CreateEntity(ctx context.Context, entity *model.AssetEntity) error {
	return l.entityDAO.Create(ctx, l.db, entity)
}

func (l *Logic) UpdateEntity(ctx context.Context, id uint, updates map[string]interface{}) (*model.AssetEntity, error) {
	entity, err := l.entityDAO.Update(ctx, l.db, id, updates)
	if err != nil {
		return nil, notFound(err, ErrEntityNotFound)
	}
	return entity, nil
}

// DeleteEntity removes the entity together with its attachment rows and
// returns the removed attachments so their objects can be deleted.
func (l *Logic) DeleteEntity(ctx context.Context, id uint) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if attachments, err = l.attachmentDAO.ListByEntity(ctx, tx, id); err != nil {
			return err
		}
		if err := l.attachmentDAO.DeleteByEntity(ctx, tx, id); err != nil {
			return err
		}
		return l.entityDAO.Delete(ctx, tx, id)
	})
	if err != nil {
		return nil, notFound(err, ErrEntityNotFound)
	}
	return attachments, nil
}

// entityWriter adapts the entity DAO to catalog.RecordWriter. Rows are
// attributed to the principal in ctx, if any.
type entityWriter struct {
	logic *Logic
}

func (w *entityWriter) CreateMany(ctx context.Context, candidates []catalog.Candidate) (int, error) {
	var createdBy *uint
	if id, ok := common.AdminIDFromContext(ctx); ok {
		createdBy = &id
	}
	entities := make([]model.AssetEntity, 0, len(candidates))
	for _, c := range candidates {
		entities = append(entities, model.AssetEntity{
			TypeID:      c.TypeID,
			Title:       c.Title,
			Status:      c.Status,
			Data:        datatypes.JSONMap(c.Data),
			CreatedByID: createdBy,
			Source:      constants.SourceCSV,
		})
	}
	n, err := w.logic.entityDAO.CreateMany(ctx, w.logic.db, entities)
	return int(n), err
}
