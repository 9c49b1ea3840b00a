package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ProductionRun is one line-shift of output for an order.
//
// Grain: (data_source_id, order_id, production_date, shift). This uniqueness
// is the system's de-duplication invariant: re-ingesting the same file must
// update existing runs differentially, never create duplicates. Two
// concurrent promotions may race on this key, so it is enforced as a real
// database constraint and writes go through an upsert.
type ProductionRun struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	BusinessId   string    `gorm:"size:64;not null;index" json:"business_id"`
	DataSourceId int       `gorm:"not null;index:uniq_run,unique" json:"data_source_id"`
	OrderId      int       `gorm:"not null;index:uniq_run,unique" json:"order_id"`
	ProductionDate time.Time `gorm:"type:date;not null;index:uniq_run,unique" json:"production_date"`
	Shift        string    `gorm:"size:20;not null;default:'DAY';index:uniq_run,unique" json:"shift"`
	LineNumber   string    `gorm:"size:50" json:"line_number"`

	ActualQty        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"actual_qty"`
	PlannedQty       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"planned_qty"`
	SAM              decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"sam"`
	DHU              decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"dhu"`
	OperatorsPresent int             `gorm:"default:0" json:"operators_present"`
	HelpersPresent   int             `gorm:"default:0" json:"helpers_present"`
	WorkedMinutes    decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"worked_minutes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// RunKey is the natural identity of a run within one data source.
type RunKey struct {
	OrderId        int
	ProductionDate string // yyyy-mm-dd, date-only
	Shift          string
}

func NewRunKey(orderId int, date time.Time, shift string) RunKey {
	return RunKey{
		OrderId:        orderId,
		ProductionDate: date.Format("2006-01-02"),
		Shift:          shift,
	}
}

func (k RunKey) String() string {
	return fmt.Sprintf("%d|%s|%s", k.OrderId, k.ProductionDate, k.Shift)
}
