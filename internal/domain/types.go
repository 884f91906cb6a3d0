package domain

import (
	"database/sql/driver"
	"encoding/json"
)

// Metadata is a free-form JSON blob stored as TEXT. A nil map round-trips
// as SQL NULL.
type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return nil
	}

	if len(data) == 0 || string(data) == "null" {
		*m = nil
		return nil
	}

	return json.Unmarshal(data, m)
}

// Color extracts the line color recorded under origin.color. Returns nil
// when the blob is absent or not in the expected shape.
func (m Metadata) Color() *string {
	if m == nil {
		return nil
	}
	origin, ok := m["origin"].(map[string]interface{})
	if !ok {
		return nil
	}
	color, ok := origin["color"].(string)
	if !ok || color == "" {
		return nil
	}
	return &color
}

// InactiveMetadata marks a station that upstream no longer serves.
func InactiveMetadata() Metadata {
	return Metadata{"active": false}
}
