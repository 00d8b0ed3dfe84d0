package models

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

type FieldKind int

const (
	// KindAmount is a finite, non-negative currency amount.
	KindAmount FieldKind = iota
	// KindText is a non-empty string.
	KindText
)

type Field struct {
	Name  string
	Label string
	Kind  FieldKind
}

// Schema describes one record collection and how its form input is validated.
type Schema struct {
	Collection string
	Singular   string
	Plural     string
	Fields     []Field
}

// ValidationError is returned for input rejected before reaching the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr) || errors.Is(err, ErrInvalidRange)
}

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Placeholder is the single entry shown when a list comes back empty.
func (s Schema) Placeholder() string {
	return fmt.Sprintf("No %s found for the selected date range", s.Plural)
}

// Validate parses raw form input into typed field values.
func (s Schema) Validate(raw map[string]string) (map[string]any, error) {
	values := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		v, err := f.parse(raw[f.Name])
		if err != nil {
			return nil, err
		}
		values[f.Name] = v
	}
	return values, nil
}

// Normalize checks values decoded from a JSON body. Unknown keys are dropped.
func (s Schema) Normalize(values map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		v, ok := values[f.Name]
		if !ok || v == nil {
			return nil, &ValidationError{Field: f.Name, Reason: "is required"}
		}
		switch typed := v.(type) {
		case string:
			parsed, err := f.parse(typed)
			if err != nil {
				return nil, err
			}
			out[f.Name] = parsed
		case float64:
			if f.Kind != KindAmount {
				return nil, &ValidationError{Field: f.Name, Reason: "must be a string"}
			}
			if err := checkAmount(f.Name, typed); err != nil {
				return nil, err
			}
			out[f.Name] = typed
		default:
			return nil, &ValidationError{Field: f.Name, Reason: "has an unsupported type"}
		}
	}
	return out, nil
}

// FormatValue renders a stored value for a form input. Amounts are fixed to
// two decimals.
func (f Field) FormatValue(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case float64:
		if f.Kind == KindAmount {
			return decimal.NewFromFloat(typed).StringFixed(2)
		}
		return decimal.NewFromFloat(typed).String()
	case string:
		if f.Kind == KindAmount {
			if d, err := decimal.NewFromString(strings.TrimSpace(typed)); err == nil {
				return d.StringFixed(2)
			}
		}
		return typed
	default:
		return fmt.Sprint(typed)
	}
}

func (f Field) parse(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch f.Kind {
	case KindAmount:
		return ParseAmount(f.Name, raw)
	default:
		if raw == "" {
			return nil, &ValidationError{Field: f.Name, Reason: "is required"}
		}
		return raw, nil
	}
}

// ParseAmount accepts decimal strings only; NaN and infinities never parse.
func ParseAmount(field, raw string) (float64, error) {
	if raw == "" {
		return 0, &ValidationError{Field: field, Reason: "is required"}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: "must be a valid number"}
	}
	if d.IsNegative() {
		return 0, &ValidationError{Field: field, Reason: "must not be negative"}
	}
	v, _ := d.Float64()
	if err := checkAmount(field, v); err != nil {
		return 0, err
	}
	return v, nil
}

func checkAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Reason: "must be a finite number"}
	}
	if v < 0 {
		return &ValidationError{Field: field, Reason: "must not be negative"}
	}
	return nil
}

var registry = []Schema{BillSchema, ItemSchema}

// Schemas lists every collection served and managed by this module.
func Schemas() []Schema {
	return append([]Schema(nil), registry...)
}

// SchemaFor looks a schema up by collection name.
func SchemaFor(collection string) (Schema, bool) {
	for _, s := range registry {
		if s.Collection == collection {
			return s, true
		}
	}
	return Schema{}, false
}
