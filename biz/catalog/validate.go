package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Row-level rejection reasons.
const (
	ReasonMissingRequired = "missing required value"
	ReasonInvalidNumber   = "not a valid number"
	ReasonInvalidDate     = "invalid date format"
	ReasonInvalidBoolean  = "not a valid boolean"
	ReasonNotInOptions    = "value not in allowed options"
	ReasonUnsupportedType = "unsupported field type"
	ReasonMissingTitle    = "missing title"
)

// DateLayout is the canonical stored form of date fields.
const DateLayout = "2006-01-02"

// FieldError rejects one raw value for one field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Value is a validated field value. Present is false for empty optional input,
// in which case the key must be left out of the stored data.
type Value struct {
	Present bool
	V       any
}

var (
	truthy = map[string]bool{"true": true, "1": true, "y": true, "yes": true, "o": true}
	falsy  = map[string]bool{"false": true, "0": true, "n": true, "no": true, "x": true}
)

// dateLayouts are tried in order. Layouts with a zone keep the calendar date
// as written; the instant is never converted.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006.1.2",
}

// Validate converts one raw cell into a typed value for field.
func Validate(field FieldDef, raw string) (Value, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		if field.Required {
			return Value{}, &FieldError{Field: field.Key, Reason: ReasonMissingRequired}
		}
		return Value{}, nil
	}

	switch field.Type {
	case FieldText, FieldTextarea:
		return Value{Present: true, V: s}, nil
	case FieldNumber:
		if !plainDecimal(s) {
			return Value{}, &FieldError{Field: field.Key, Reason: ReasonInvalidNumber}
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Value{}, &FieldError{Field: field.Key, Reason: ReasonInvalidNumber}
		}
		return Value{Present: true, V: n}, nil
	case FieldDate:
		d, ok := parseDate(s)
		if !ok {
			return Value{}, &FieldError{Field: field.Key, Reason: ReasonInvalidDate}
		}
		return Value{Present: true, V: d}, nil
	case FieldBoolean:
		lower := strings.ToLower(s)
		switch {
		case truthy[lower]:
			return Value{Present: true, V: true}, nil
		case falsy[lower]:
			return Value{Present: true, V: false}, nil
		}
		return Value{}, &FieldError{Field: field.Key, Reason: ReasonInvalidBoolean}
	case FieldSelect:
		if len(field.Options) > 0 && !contains(field.Options, s) {
			return Value{}, &FieldError{Field: field.Key, Reason: ReasonNotInOptions}
		}
		return Value{Present: true, V: s}, nil
	default:
		return Value{}, &FieldError{Field: field.Key, Reason: ReasonUnsupportedType}
	}
}

func parseDate(s string) (string, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), true
		}
	}
	return "", false
}

// ValidateData validates a JSON-decoded data object against schema, the way
// the interactive create and update paths do. Keys without a matching active
// field are dropped. The first failing field in schema order is returned.
func ValidateData(schema *Schema, input map[string]any) (map[string]any, error) {
	data := make(map[string]any, len(schema.Fields))
	for _, field := range schema.Fields {
		v, err := Validate(field, rawString(input[field.Key]))
		if err != nil {
			return nil, err
		}
		if v.Present {
			data[field.Key] = v.V
		}
	}
	return data, nil
}

// rawString renders a decoded JSON value as the text a CSV cell would carry.
func rawString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}

// plainDecimal rejects the Go literal forms ParseFloat also accepts: digit
// separators and hex mantissas.
func plainDecimal(s string) bool {
	if strings.ContainsRune(s, '_') {
		return false
	}
	unsigned := strings.TrimLeft(s, "+-")
	return !strings.HasPrefix(unsigned, "0x") && !strings.HasPrefix(unsigned, "0X")
}
