package models

import "time"

// DataQualityIssue is advisory telemetry attached to an import: physics
// anomalies, unparseable dates, skipped rows. Append-only, never blocks a
// write, never mutated after insert.
type DataQualityIssue struct {
	ID        int           `gorm:"primary_key" json:"id"`
	ImportId  int           `gorm:"not null;index" json:"import_id"`
	RowNumber int           `json:"row_number"`
	IssueType string        `gorm:"size:50;not null" json:"issue_type"`
	Severity  IssueSeverity `gorm:"size:20;not null;default:'WARNING'" json:"severity"`
	Message   string        `gorm:"type:text" json:"message"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
}
