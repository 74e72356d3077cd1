// Package catalog holds the schema-driven validation and CSV ingestion core.
// It has no storage or transport dependencies; callers plug those in through
// SchemaSource and RecordWriter.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// FieldType is the closed set of field kinds a schema may declare.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldSelect   FieldType = "select"
	FieldBoolean  FieldType = "boolean"
)

// FieldTypes lists every supported FieldType in display order.
var FieldTypes = []FieldType{FieldText, FieldTextarea, FieldNumber, FieldDate, FieldSelect, FieldBoolean}

// ErrUnknownFieldType is returned by ParseFieldType for tags outside FieldTypes.
var ErrUnknownFieldType = errors.New("unknown field type")

// ParseFieldType converts a stored tag into a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	for _, ft := range FieldTypes {
		if string(ft) == s {
			return ft, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, s)
}

// FieldDef is the validator's view of one active schema field.
type FieldDef struct {
	ID       uint
	Key      string
	Label    string
	Type     FieldType
	Required bool
	Options  []Option
	Order    int
}

// Schema is a snapshot of one active asset type and its active fields.
type Schema struct {
	TypeID uint
	Slug   string
	Name   string
	Fields []FieldDef
}

// ErrSchemaNotFound means no active asset type matches the selector.
var ErrSchemaNotFound = errors.New("schema not found")

// SchemaSource resolves the active schema for a slug. Implementations return
// ErrSchemaNotFound (possibly wrapped) when nothing matches.
type SchemaSource interface {
	ActiveSchema(ctx context.Context, slug string) (*Schema, error)
}

// SortFields orders fields by (Order, ID) ascending.
func SortFields(fields []FieldDef) {
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Order != fields[j].Order {
			return fields[i].Order < fields[j].Order
		}
		return fields[i].ID < fields[j].ID
	})
}
