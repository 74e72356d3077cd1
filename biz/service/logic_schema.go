package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/yi-nology/itam/biz/catalog"
	"github.com/yi-nology/itam/biz/dal/model"
	"gorm.io/gorm"
)

// --------------------- Schema Operations ---------------------

// ActiveSchema implements catalog.SchemaSource. Options that fail to parse are
// treated as absent, which makes the select field permissive.
func (l *Logic) ActiveSchema(ctx context.Context, slug string) (*catalog.Schema, error) {
	assetType, err := l.assetTypeDAO.GetActiveBySlug(ctx, l.db, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", catalog.ErrSchemaNotFound, slug)
		}
		return nil, err
	}
	return toSchema(assetType), nil
}

func toSchema(assetType *model.AssetType) *catalog.Schema {
	schema := &catalog.Schema{
		TypeID: assetType.ID,
		Slug:   assetType.Slug,
		Name:   assetType.Name,
		Fields: make([]catalog.FieldDef, 0, len(assetType.Fields)),
	}
	for _, f := range assetType.Fields {
		options, err := catalog.ParseOptions(f.OptionsJSON)
		if err != nil {
			options = nil
		}
		schema.Fields = append(schema.Fields, catalog.FieldDef{
			ID:       f.ID,
			Key:      f.Key,
			Label:    f.Label,
			Type:     catalog.FieldType(f.FieldType),
			Required: f.Required,
			Options:  options,
			Order:    f.SortOrder,
		})
	}
	catalog.SortFields(schema.Fields)
	return schema
}

func (l *Logic) ListAssetTypes(ctx context.Context, includeInactive bool) ([]model.AssetType, error) {
	if includeInactive {
		return l.assetTypeDAO.List(ctx, l.db, nil)
	}
	active := true
	return l.assetTypeDAO.List(ctx, l.db, &active)
}

func (l *Logic) GetActiveAssetType(ctx context.Context, slug string) (*model.AssetType, error) {
	assetType, err := l.assetTypeDAO.GetActiveBySlug(ctx, l.db, slug)
	if err != nil {
		return nil, notFound(err, ErrAssetTypeNotFound)
	}
	return assetType, nil
}

func (l *Logic) GetAssetType(ctx context.Context, slug string) (*model.AssetType, error) {
	assetType, err := l.assetTypeDAO.GetBySlug(ctx, l.db, slug)
	if err != nil {
		return nil, notFound(err, ErrAssetTypeNotFound)
	}
	return assetType, nil
}

func (l *Logic) CreateAssetType(ctx context.Context, assetType *model.AssetType) error {
	exists, err := l.assetTypeDAO.ExistsBySlug(ctx, l.db, assetType.Slug)
	if err != nil {
		return err
	}
	if exists {
		return ErrAssetTypeSlugExists
	}
	return l.assetTypeDAO.Create(ctx, l.db, assetType)
}

func (l *Logic) UpdateAssetType(ctx context.Context, slug string, updates map[string]interface{}) error {
	return notFound(l.assetTypeDAO.Update(ctx, l.db, slug, updates), ErrAssetTypeNotFound)
}

func (l *Logic) ListFields(ctx context.Context, typeID uint, activeOnly bool) ([]model.AssetTypeField, error) {
	return l.fieldDAO.ListByType(ctx, l.db, typeID, activeOnly)
}

func (l *Logic) GetField(ctx context.Context, typeID uint, key string) (*model.AssetTypeField, error) {
	field, err := l.fieldDAO.GetByKey(ctx, l.db, typeID, key)
	if err != nil {
		return nil, notFound(err, ErrFieldNotFound)
	}
	return field, nil
}

func (l *Logic) CreateField(ctx context.Context, field *model.AssetTypeField) error {
	exists, err := l.fieldDAO.ExistsByKey(ctx, l.db, field.TypeID, field.Key)
	if err != nil {
		return err
	}
	if exists {
		return ErrFieldKeyExists
	}
	return l.fieldDAO.Create(ctx, l.db, field)
}

// UpdateField applies updates. A key change is refused while entities of the
// type exist, since their stored data would be orphaned.
func (l *Logic) UpdateField(ctx context.Context, typeID uint, key string, updates map[string]interface{}) error {
	if newKey, ok := updates["field_key"].(string); ok && newKey != key {
		count, err := l.entityDAO.CountByType(ctx, l.db, typeID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrFieldKeyImmutable
		}
		exists, err := l.fieldDAO.ExistsByKey(ctx, l.db, typeID, newKey)
		if err != nil {
			return err
		}
		if exists {
			return ErrFieldKeyExists
		}
	}
	return notFound(l.fieldDAO.Update(ctx, l.db, typeID, key, updates), ErrFieldNotFound)
}
