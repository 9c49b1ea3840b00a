package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionEvent records quantity changes additively: the sum of all events
// for a run always reconstructs its current actual_qty. Differential updates
// therefore write the delta, never the new total.
type ProductionEvent struct {
	ID        int             `gorm:"primary_key" json:"id"`
	RunId     string          `gorm:"size:36;not null;index" json:"run_id"`
	EventType EventType       `gorm:"size:20;not null" json:"event_type"`
	Quantity  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	RowNumber int             `json:"row_number"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
