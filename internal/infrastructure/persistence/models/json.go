package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON stores a nested value as a JSON document (jsonb on Postgres, text on SQLite)
type JSON[T any] struct {
	Data T
}

// NewJSON wraps v for storage
func NewJSON[T any](v T) JSON[T] {
	return JSON[T]{Data: v}
}

// Value implements driver.Valuer
func (j JSON[T]) Value() (driver.Value, error) {
	raw, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner
func (j *JSON[T]) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan JSON column: unsupported type %T", value)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, &j.Data)
}
