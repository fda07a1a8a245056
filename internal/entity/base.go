package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Base is embedded by entities keyed on a uuid string.
type Base struct {
	ID        string         `gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// SnowFlakeBase is embedded by high-volume entities whose ids must sort by
// creation time, such as activities.
type SnowFlakeBase struct {
	ID        int64 `gorm:"primaryKey"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into json column", src)
	}
}

// Array stores a slice as a JSON column.
type Array[T any] []T

func (a *Array[T]) Scan(src any) error {
	return scanJSON(src, a)
}

func (a Array[T]) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Map stores free-form data, such as quest requirements, as a JSON column.
type Map map[string]any

func (m *Map) Scan(src any) error {
	return scanJSON(src, m)
}

func (m Map) Value() (driver.Value, error) {
	return json.Marshal(m)
}
