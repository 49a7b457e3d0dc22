package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateRange is an inclusive ISO (YYYY-MM-DD) date range.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// TypeConfigs maps a program's semester system (e.g. "tri", "bi") to its dates.
type TypeConfigs map[string]DateRange

// Value marshals the configs for JSONB persistence.
func (c TypeConfigs) Value() (driver.Value, error) {
	if c == nil {
		c = TypeConfigs{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal type configs: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSONB type configs.
func (c *TypeConfigs) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("scan type configs: %w", err)
	}
	*c = TypeConfigs{}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("unmarshal type configs: %w", err)
	}
	return nil
}

// SemesterConfig carries the per-semester calendar used for class requirement counting.
type SemesterConfig struct {
	SemesterID  string      `db:"id" json:"semesterId"`
	Name        string      `db:"name" json:"name"`
	TypeConfigs TypeConfigs `db:"type_configs" json:"typeConfigs"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

// RangeFor returns the date range configured for a semester system.
func (s SemesterConfig) RangeFor(semesterSystem string) (DateRange, bool) {
	if s.TypeConfigs == nil || semesterSystem == "" {
		return DateRange{}, false
	}
	r, ok := s.TypeConfigs[semesterSystem]
	return r, ok
}
