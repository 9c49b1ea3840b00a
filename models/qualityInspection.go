package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QualityInspection is written for every inserted run, defects or not:
// "zero defects recorded" is a fact, an absent row is just missing data.
type QualityInspection struct {
	ID             int             `gorm:"primary_key" json:"id"`
	RunId          string          `gorm:"size:36;not null;index" json:"run_id"`
	InspectionType InspectionType  `gorm:"size:20;not null;default:'ENDLINE'" json:"inspection_type"`
	InspectedQty   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"inspected_qty"`
	DefectCount    int             `gorm:"default:0" json:"defect_count"`
	DHU            decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"dhu"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
