package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Record is one persisted entity of any collection. Domain values live in
// Fields keyed by the schema field name; the JSON form is flat.
type Record struct {
	ID        string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+3)
	for k, v := range r.Fields {
		out[k] = v
	}
	if r.ID != "" {
		out["id"] = r.ID
	}
	if r.CreatedAt.IsZero() {
		out["created_at"] = nil
	} else {
		out["created_at"] = FormatCanonical(r.CreatedAt)
	}
	if r.UpdatedAt == nil || r.UpdatedAt.IsZero() {
		out["updated_at"] = nil
	} else {
		out["updated_at"] = FormatCanonical(*r.UpdatedAt)
	}
	return json.Marshal(out)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	rec := Record{Fields: make(map[string]any, len(raw))}
	for key, value := range raw {
		switch key {
		case "id":
			id, err := decodeID(value)
			if err != nil {
				return err
			}
			rec.ID = id
		case "created_at":
			if t, ok := decodeTimestamp(value); ok {
				rec.CreatedAt = t
			}
		case "updated_at":
			if t, ok := decodeTimestamp(value); ok {
				rec.UpdatedAt = &t
			}
		default:
			var v any
			if err := json.Unmarshal(value, &v); err != nil {
				return fmt.Errorf("decode field %s: %w", key, err)
			}
			rec.Fields[key] = v
		}
	}
	*r = rec
	return nil
}

// decodeID accepts string and numeric identifiers.
func decodeID(value json.RawMessage) (string, error) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return "", nil
	}
	if value[0] == '"' {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return "", fmt.Errorf("decode id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(value, &n); err != nil {
		return "", fmt.Errorf("decode id: %w", err)
	}
	return n.String(), nil
}

// decodeTimestamp never fails: anything unparseable is treated as absent.
func decodeTimestamp(value json.RawMessage) (time.Time, bool) {
	var s *string
	if err := json.Unmarshal(value, &s); err != nil || s == nil {
		return time.Time{}, false
	}
	return ParseTimestamp(*s, time.UTC)
}
