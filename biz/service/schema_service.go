package service

import (
	"context"
	"errors"
	"strings"

	"github.com/yi-nology/itam/biz/catalog"
	"github.com/yi-nology/itam/biz/dal/model"
	"github.com/yi-nology/itam/pkg/validator"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// FieldDescription is one field as exposed to form renderers.
type FieldDescription struct {
	ID          uint           `json:"id"`
	Key         string         `json:"key"`
	Label       string         `json:"label"`
	FieldType   string         `json:"field_type"`
	Required    bool           `json:"required"`
	OptionsJSON datatypes.JSON `json:"options_json,omitempty"`
	Order       int            `json:"order"`
}

// SchemaDescription is the active shape of an asset type.
type SchemaDescription struct {
	ID     uint               `json:"id"`
	Slug   string             `json:"slug"`
	Name   string             `json:"name"`
	Fields []FieldDescription `json:"fields"`
}

// AssetTypeInput is the payload for creating or updating an asset type.
type AssetTypeInput struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	SortOrder *int   `json:"sort_order,omitempty"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

// FieldInput is the payload for creating or updating a field.
type FieldInput struct {
	Key         *string         `json:"key,omitempty"`
	Label       *string         `json:"label,omitempty"`
	FieldType   *string         `json:"field_type,omitempty"`
	Required    *bool           `json:"required,omitempty"`
	OptionsJSON *datatypes.JSON `json:"options_json,omitempty"`
	SortOrder   *int            `json:"sort_order,omitempty"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

func describe(assetType *model.AssetType) *SchemaDescription {
	desc := &SchemaDescription{
		ID:     assetType.ID,
		Slug:   assetType.Slug,
		Name:   assetType.Name,
		Fields: make([]FieldDescription, 0, len(assetType.Fields)),
	}
	for _, f := range assetType.Fields {
		desc.Fields = append(desc.Fields, FieldDescription{
			ID:          f.ID,
			Key:         f.Key,
			Label:       f.Label,
			FieldType:   f.FieldType,
			Required:    f.Required,
			OptionsJSON: f.OptionsJSON,
			Order:       f.SortOrder,
		})
	}
	return desc
}

// --------------------- Schema registry ---------------------

// GetActiveSchema resolves the active schema used for validation.
func (s *Service) GetActiveSchema(ctx context.Context, slug string) (*catalog.Schema, error) {
	return s.logic.ActiveSchema(ctx, strings.TrimSpace(slug))
}

// DescribeSchema returns the active type with its active fields in display order.
func (s *Service) DescribeSchema(ctx context.Context, slug string) (*SchemaDescription, error) {
	assetType, err := s.logic.GetActiveAssetType(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	return describe(assetType), nil
}

func (s *Service) ListAssetTypes(ctx context.Context, includeInactive bool) ([]model.AssetType, error) {
	return s.logic.ListAssetTypes(ctx, includeInactive)
}

// --------------------- Asset type administration ---------------------

func (s *Service) CreateAssetType(ctx context.Context, input *AssetTypeInput) (*model.AssetType, error) {
	if input == nil {
		return nil, invalid("input required")
	}
	slug, ok := validator.SanitizeKey(input.Slug)
	if !ok {
		return nil, invalid("slug must match [a-z0-9_-]{1,64}")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	assetType := &model.AssetType{Slug: slug, Name: name, IsActive: true}
	if input.SortOrder != nil {
		assetType.SortOrder = *input.SortOrder
	}
	if err := s.logic.CreateAssetType(ctx, assetType); err != nil {
		return nil, err
	}
	s.logger.Info("asset type created", zap.String("slug", slug))
	return assetType, nil
}

// UpdateAssetType changes name, order or active flag. The slug is fixed.
func (s *Service) UpdateAssetType(ctx context.Context, slug string, input *AssetTypeInput) (*model.AssetType, error) {
	if input == nil {
		return nil, invalid("input required")
	}
	updates := map[string]interface{}{}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return s.logic.GetAssetType(ctx, slug)
	}
	if err := s.logic.UpdateAssetType(ctx, slug, updates); err != nil {
		return nil, err
	}
	return s.logic.GetAssetType(ctx, slug)
}

// DeactivateAssetType hides a type from selection. Types are never hard-deleted.
func (s *Service) DeactivateAssetType(ctx context.Context, slug string) error {
	if err := s.logic.UpdateAssetType(ctx, slug, map[string]interface{}{"is_active": false}); err != nil {
		return err
	}
	s.logger.Info("asset type deactivated", zap.String("slug", slug))
	return nil
}

// reservedFieldKeys collide with the fixed CSV columns.
var reservedFieldKeys = map[string]bool{"title": true, "name": true, "status": true}

func (s *Service) AddField(ctx context.Context, slug string, input *FieldInput) (*model.AssetTypeField, error) {
	if input == nil || input.Key == nil || input.FieldType == nil {
		return nil, invalid("key and field_type are required")
	}
	assetType, err := s.logic.GetAssetType(ctx, slug)
	if err != nil {
		return nil, err
	}
	key, ok := validator.SanitizeFieldKey(*input.Key)
	if !ok {
		return nil, invalid("key must start with a letter and contain only letters, digits and underscores")
	}
	if reservedFieldKeys[key] {
		return nil, invalid("key is reserved: " + key)
	}
	fieldType, err := catalog.ParseFieldType(strings.TrimSpace(*input.FieldType))
	if err != nil {
		return nil, invalid(err.Error())
	}

	field := &model.AssetTypeField{
		TypeID:    assetType.ID,
		Key:       key,
		Label:     key,
		FieldType: string(fieldType),
		IsActive:  true,
	}
	if input.Label != nil && strings.TrimSpace(*input.Label) != "" {
		field.Label = strings.TrimSpace(*input.Label)
	}
	if input.Required != nil {
		field.Required = *input.Required
	}
	if input.SortOrder != nil {
		field.SortOrder = *input.SortOrder
	}
	if input.OptionsJSON != nil {
		options, err := checkOptions(fieldType, *input.OptionsJSON)
		if err != nil {
			return nil, err
		}
		field.OptionsJSON = options
	}
	if err := s.logic.CreateField(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

func (s *Service) UpdateField(ctx context.Context, slug, key string, input *FieldInput) (*model.AssetTypeField, error) {
	if input == nil {
		return nil, invalid("input required")
	}
	assetType, err := s.logic.GetAssetType(ctx, slug)
	if err != nil {
		return nil, err
	}
	current, err := s.logic.GetField(ctx, assetType.ID, key)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Key != nil {
		newKey, ok := validator.SanitizeFieldKey(*input.Key)
		if !ok {
			return nil, invalid("key must start with a letter and contain only letters, digits and underscores")
		}
		if newKey != current.Key {
			if reservedFieldKeys[newKey] {
				return nil, invalid("key is reserved: " + newKey)
			}
			updates["field_key"] = newKey
		}
	}
	fieldType := catalog.FieldType(current.FieldType)
	if input.FieldType != nil {
		ft, err := catalog.ParseFieldType(strings.TrimSpace(*input.FieldType))
		if err != nil {
			return nil, invalid(err.Error())
		}
		fieldType = ft
		updates["field_type"] = string(ft)
	}
	if input.Label != nil {
		updates["label"] = strings.TrimSpace(*input.Label)
	}
	if input.Required != nil {
		updates["required"] = *input.Required
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.OptionsJSON != nil {
		options, err := checkOptions(fieldType, *input.OptionsJSON)
		if err != nil {
			return nil, err
		}
		updates["options_json"] = options
	} else if fieldType != catalog.FieldSelect && len(current.OptionsJSON) > 0 {
		updates["options_json"] = nil
	}

	if len(updates) > 0 {
		if err := s.logic.UpdateField(ctx, assetType.ID, key, updates); err != nil {
			return nil, err
		}
	}
	finalKey := key
	if k, ok := updates["field_key"].(string); ok {
		finalKey = k
	}
	return s.logic.GetField(ctx, assetType.ID, finalKey)
}

// DeactivateField hides a field from the active schema. Stored values stay in place.
func (s *Service) DeactivateField(ctx context.Context, slug, key string) error {
	assetType, err := s.logic.GetAssetType(ctx, slug)
	if err != nil {
		return err
	}
	return s.logic.UpdateField(ctx, assetType.ID, key, map[string]interface{}{"is_active": false})
}

// checkOptions accepts options only for select fields and only when they parse.
func checkOptions(fieldType catalog.FieldType, raw datatypes.JSON) (datatypes.JSON, error) {
	options, err := catalog.ParseOptions(raw)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidOptions) {
			return nil, invalid(err.Error())
		}
		return nil, err
	}
	if len(options) == 0 {
		return nil, nil
	}
	if fieldType != catalog.FieldSelect {
		return nil, invalid("options are only allowed for select fields")
	}
	return raw, nil
}
