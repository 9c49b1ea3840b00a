package models

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/aguo890/linesight/utils"
)

// ColumnMap is a JSON column: source header -> canonical field.
type ColumnMap map[string]string

func (m ColumnMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *ColumnMap) Scan(value interface{}) error {
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		*m = ColumnMap{}
		return nil
	default:
		return errors.New("column map must be json string")
	}
	return json.Unmarshal(b, m)
}

// SchemaMapping is a versioned snapshot of how one data source's columns map
// onto canonical fields. Exactly one mapping per data source is active at a
// time; activating a new one deactivates all predecessors atomically.
type SchemaMapping struct {
	ID           int       `gorm:"primary_key" json:"id"`
	BusinessId   string    `gorm:"size:64;not null;index" json:"business_id"`
	DataSourceId int       `gorm:"not null;index:idx_mapping_source" json:"data_source_id"`
	Version      int       `gorm:"not null;default:1" json:"version"`
	IsActive     bool      `gorm:"not null;default:false;index:idx_mapping_source" json:"is_active"`
	Columns      ColumnMap `gorm:"type:json" json:"columns"`
	TimeFormat   string    `gorm:"size:30;default:'auto'" json:"time_format"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ActivateMapping confirms a new mapping for a data source: one transaction
// deactivates every prior active mapping and inserts the new one with
// version = max(existing)+1.
func ActivateMapping(ctx context.Context, db *gorm.DB, businessId string, dataSourceId int, columns ColumnMap, timeFormat string) (*SchemaMapping, error) {
	if timeFormat == "" {
		timeFormat = "auto"
	}

	var mapping *SchemaMapping
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&SchemaMapping{}).
			Where("business_id = ? AND data_source_id = ? AND is_active = ?", businessId, dataSourceId, true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		var maxVersion int
		if err := tx.Model(&SchemaMapping{}).
			Where("business_id = ? AND data_source_id = ?", businessId, dataSourceId).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error; err != nil {
			return err
		}

		mapping = &SchemaMapping{
			BusinessId:   businessId,
			DataSourceId: dataSourceId,
			Version:      maxVersion + 1,
			IsActive:     true,
			Columns:      columns,
			TimeFormat:   timeFormat,
		}
		return tx.Create(mapping).Error
	})
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

func GetActiveMapping(ctx context.Context, db *gorm.DB, businessId string, dataSourceId int) (*SchemaMapping, error) {
	var mapping SchemaMapping
	err := db.WithContext(ctx).
		Where("business_id = ? AND data_source_id = ? AND is_active = ?", businessId, dataSourceId, true).
		Take(&mapping).Error
	if err != nil {
		return nil, utils.TranslateGormError(err)
	}
	return &mapping, nil
}
