package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Style is a garment style as the factory knows it.
// Unique constraint: (business_id, factory_id, style_number).
type Style struct {
	ID          int             `gorm:"primary_key" json:"id"`
	BusinessId  string          `gorm:"size:64;not null;index:uniq_style,unique" json:"business_id"`
	FactoryId   int             `gorm:"not null;index:uniq_style,unique" json:"factory_id"`
	StyleNumber string          `gorm:"size:100;not null;index:uniq_style,unique" json:"style_number"`
	Buyer       string          `gorm:"size:100" json:"buyer"`
	Season      string          `gorm:"size:50" json:"season"`
	StandardSAM decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"standard_sam"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
