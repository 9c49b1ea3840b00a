package models

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/aguo890/linesight/utils"
)

// DataImport tracks one uploaded source file through its lifecycle and is
// the idempotency anchor for promotion: promoting an import that is already
// PROMOTED is a safe no-op.
type DataImport struct {
	ID           int          `gorm:"primary_key" json:"id"`
	BusinessId   string       `gorm:"size:64;not null;index" json:"business_id"`
	DataSourceId int          `gorm:"not null;index" json:"data_source_id"`
	FileName     string       `gorm:"size:255" json:"file_name"`
	Status       ImportStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	RowCount     int          `gorm:"default:0" json:"row_count"`
	InsertedRuns int          `gorm:"default:0" json:"inserted_runs"`
	UpdatedRuns  int          `gorm:"default:0" json:"updated_runs"`
	EventCount   int          `gorm:"default:0" json:"event_count"`
	ErrorCount   int          `gorm:"default:0" json:"error_count"`
	LastError    *string      `gorm:"type:text" json:"last_error"`
	PromotedAt   *time.Time   `json:"promoted_at"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetDataImport(ctx context.Context, db *gorm.DB, importId int) (*DataImport, error) {
	var imp DataImport
	if err := db.WithContext(ctx).Where("id = ?", importId).Take(&imp).Error; err != nil {
		return nil, utils.TranslateGormError(err)
	}
	return &imp, nil
}

// MarkImportPromoted persists the terminal status and counters. Must run
// inside the promotion transaction so status and written rows commit together.
func MarkImportPromoted(ctx context.Context, tx *gorm.DB, importId int, inserted, updated, events, errs int) error {
	now := time.Now()
	return tx.WithContext(ctx).Model(&DataImport{}).
		Where("id = ?", importId).
		Updates(map[string]interface{}{
			"status":        ImportStatusPromoted,
			"inserted_runs": inserted,
			"updated_runs":  updated,
			"event_count":   events,
			"error_count":   errs,
			"promoted_at":   &now,
			"last_error":    nil,
		}).Error
}

func MarkImportFailed(ctx context.Context, db *gorm.DB, importId int, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return db.WithContext(ctx).Model(&DataImport{}).
		Where("id = ?", importId).
		Updates(map[string]interface{}{
			"status":     ImportStatusFailed,
			"last_error": &msg,
		}).Error
}
