package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EfficiencyMetric is derived data (earned vs available minutes) and can be
// rebuilt from the run row at any time.
type EfficiencyMetric struct {
	ID               int             `gorm:"primary_key" json:"id"`
	RunId            string          `gorm:"size:36;not null;index" json:"run_id"`
	EarnedMinutes    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"earned_minutes"`
	AvailableMinutes decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"available_minutes"`
	EfficiencyPct    decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"efficiency_pct"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
