package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionOrder is a purchase order for a style.
// Unique constraint: (business_id, style_id, po_number).
type ProductionOrder struct {
	ID         int             `gorm:"primary_key" json:"id"`
	BusinessId string          `gorm:"size:64;not null;index:uniq_order,unique" json:"business_id"`
	StyleId    int             `gorm:"not null;index:uniq_order,unique" json:"style_id"`
	PONumber   string          `gorm:"size:100;not null;index:uniq_order,unique" json:"po_number"`
	OrderQty   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"order_qty"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
