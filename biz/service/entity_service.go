package service

import (
	"context"
	"strings"

	"github.com/yi-nology/itam/biz/catalog"
	"github.com/yi-nology/itam/biz/dal/db"
	"github.com/yi-nology/itam/biz/dal/model"
	"github.com/yi-nology/itam/pkg/common"
	"github.com/yi-nology/itam/pkg/constants"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// EntityQuery filters entity listings.
type EntityQuery struct {
	TypeSlug string
	Query    string
	Take     int
}

// EntityInput creates an entity interactively.
type EntityInput struct {
	TypeSlug string         `json:"type_slug"`
	Title    string         `json:"title"`
	Status   string         `json:"status"`
	Data     map[string]any `json:"data"`
}

// EntityPatch updates an entity. Nil members are left unchanged; Data
// replaces the stored map wholesale.
type EntityPatch struct {
	Title  *string        `json:"title,omitempty"`
	Status *string        `json:"status,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

func (s *Service) ListEntities(ctx context.Context, q EntityQuery) ([]model.AssetEntity, error) {
	return s.logic.ListEntities(ctx, db.EntityFilter{
		TypeSlug: q.TypeSlug,
		Query:    q.Query,
		Limit:    q.Take,
	})
}

func (s *Service) GetEntity(ctx context.Context, id uint) (*model.AssetEntity, error) {
	return s.logic.GetEntity(ctx, id)
}

// CreateEntity validates data through the field validator and stores one MANUAL entity.
func (s *Service) CreateEntity(ctx context.Context, input *EntityInput) (*model.AssetEntity, error) {
	if input == nil {
		return nil, invalid("input required")
	}
	schema, err := s.logic.ActiveSchema(ctx, strings.TrimSpace(input.TypeSlug))
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalid(catalog.ReasonMissingTitle)
	}
	status := strings.ToUpper(strings.TrimSpace(input.Status))
	if status == "" {
		status = constants.DefaultEntityStatus
	}
	data, err := catalog.ValidateData(schema, input.Data)
	if err != nil {
		return nil, err
	}

	entity := &model.AssetEntity{
		TypeID: schema.TypeID,
		Title:  title,
		Status: status,
		Data:   datatypes.JSONMap(data),
		Source: constants.SourceManual,
	}
	if id, ok := common.AdminIDFromContext(ctx); ok {
		entity.CreatedByID = &id
	}
	if err := s.logic.CreateEntity(ctx, entity); err != nil {
		return nil, err
	}
	return s.logic.GetEntity(ctx, entity.ID)
}

// UpdateEntity applies a PATCH. A present title must be non-blank; a present
// data map is validated against the entity's active schema and replaces the
// stored map.
func (s *Service) UpdateEntity(ctx context.Context, id uint, patch *EntityPatch) (*model.AssetEntity, error) {
	if patch == nil {
		return nil, invalid("input required")
	}
	updates := map[string]interface{}{}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, invalid("title must not be empty")
		}
		updates["title"] = title
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Data != nil {
		current, err := s.logic.GetEntity(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Type == nil {
			return nil, ErrAssetTypeNotFound
		}
		schema, err := s.logic.ActiveSchema(ctx, current.Type.Slug)
		if err != nil {
			return nil, err
		}
		data, err := catalog.ValidateData(schema, patch.Data)
		if err != nil {
			return nil, err
		}
		updates["data"] = datatypes.JSONMap(data)
	}
	return s.logic.UpdateEntity(ctx, id, updates)
}

// DeleteEntity hard-deletes an entity and its attachments. Object removal
// happens after commit; failures are logged and leave only orphaned objects.
func (s *Service) DeleteEntity(ctx context.Context, id uint) error {
	attachments, err := s.logic.DeleteEntity(ctx, id)
	if err != nil {
		return err
	}
	for _, a := range attachments {
		if err := s.storage.DeleteObject(ctx, a.Path); err != nil {
			s.logger.Warn("delete attachment object failed", zap.String("key", a.Path), zap.Error(err))
		}
	}
	s.logger.Info("asset deleted", zap.Uint("id", id), zap.Int("attachments", len(attachments)))
	return nil
}
