package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Option is one allowed value of a select field.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ErrInvalidOptions is returned for options payloads that are neither a string
// array nor an array of {label, value} objects with a scalar value.
var ErrInvalidOptions = errors.New("options must be an array of strings or {label, value} objects")

// ParseOptions decodes a select field's options payload. Null, empty and
// whitespace-only payloads yield no options.
func ParseOptions(raw []byte) ([]Option, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	options := make([]Option, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			options = append(options, Option{Label: s, Value: s})
			continue
		}
		var obj struct {
			Label *string `json:"label"`
			Value any     `json:"value"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return nil, ErrInvalidOptions
		}
		value, ok := scalarString(obj.Value)
		if !ok {
			return nil, ErrInvalidOptions
		}
		opt := Option{Value: value, Label: value}
		if obj.Label != nil && strings.TrimSpace(*obj.Label) != "" {
			opt.Label = *obj.Label
		}
		options = append(options, opt)
	}
	return options, nil
}

// scalarString renders string, number and boolean option values the way they
// appear in a CSV cell.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// contains matches v exactly against option values.
func contains(options []Option, v string) bool {
	for _, opt := range options {
		if opt.Value == v {
			return true
		}
	}
	return false
}
