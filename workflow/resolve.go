package workflow

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aguo890/linesight/models"
)

// OrderKey identifies a production order within a business.
type OrderKey struct {
	PONumber string
	StyleId  int
}

// requeryCommitted re-reads a row another transaction just committed after
// we lost an insert race. A plain SELECT under REPEATABLE READ can still see
// the pre-insert snapshot; the share lock forces a current read.
func requeryCommitted(ctx context.Context, tx *gorm.DB, dest interface{}, query string, args ...interface{}) *gorm.DB {
	return tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where(query, args...).
		Take(dest)
}

// ResolveStyles maps every distinct style number in the batch to a Style row,
// creating missing ones. One IN query for the lookup, then per-miss creates;
// a 1062 from a concurrent promotion is recovered by requerying.
func ResolveStyles(ctx context.Context, tx *gorm.DB, records []ParsedRecord, businessId string, factoryId int) (map[string]models.Style, error) {
	wanted := map[string]ParsedRecord{}
	for _, rec := range records {
		num := rec.String("style_number")
		if num == "" {
			continue
		}
		if _, seen := wanted[num]; !seen {
			wanted[num] = rec
		}
	}
	resolved := make(map[string]models.Style, len(wanted))
	if len(wanted) == 0 {
		return resolved, nil
	}

	numbers := make([]string, 0, len(wanted))
	for num := range wanted {
		numbers = append(numbers, num)
	}
	var existing []models.Style
	err := tx.WithContext(ctx).
		Where("business_id = ? AND factory_id = ? AND style_number IN ?", businessId, factoryId, numbers).
		Find(&existing).Error
	if err != nil {
		return nil, err
	}
	for _, s := range existing {
		resolved[s.StyleNumber] = s
	}

	for num, rec := range wanted {
		if _, ok := resolved[num]; ok {
			continue
		}
		style := models.Style{
			BusinessId:  businessId,
			FactoryId:   factoryId,
			StyleNumber: num,
			Buyer:       rec.String("buyer"),
			Season:      rec.String("season"),
		}
		if sam, ok := rec.Decimal("sam"); ok {
			style.StandardSAM = sam
		}
		if err := tx.WithContext(ctx).Create(&style).Error; err != nil {
			if !models.IsDuplicateKeyErr(err) {
				return nil, err
			}
			// lost the race; the winner's row is ours to use
			if err := requeryCommitted(ctx, tx, &style,
				"business_id = ? AND factory_id = ? AND style_number = ?", businessId, factoryId, num).Error; err != nil {
				return nil, fmt.Errorf("style %q vanished after duplicate-key: %w", num, err)
			}
		}
		resolved[num] = style
	}
	return resolved, nil
}

// ResolveOrders maps every distinct (po_number, style) pair in the batch to a
// ProductionOrder, creating missing ones. Rows without a style resolution are
// skipped; the writer reports them as unresolved.
func ResolveOrders(ctx context.Context, tx *gorm.DB, records []ParsedRecord, styles map[string]models.Style, businessId string) (map[OrderKey]models.ProductionOrder, error) {
	wanted := map[OrderKey]ParsedRecord{}
	for _, rec := range records {
		po := rec.String("po_number")
		style, ok := styles[rec.String("style_number")]
		if po == "" || !ok {
			continue
		}
		key := OrderKey{PONumber: po, StyleId: style.ID}
		if _, seen := wanted[key]; !seen {
			wanted[key] = rec
		}
	}
	resolved := make(map[OrderKey]models.ProductionOrder, len(wanted))
	if len(wanted) == 0 {
		return resolved, nil
	}

	poNumbers := make([]string, 0, len(wanted))
	for key := range wanted {
		poNumbers = append(poNumbers, key.PONumber)
	}
	var existing []models.ProductionOrder
	err := tx.WithContext(ctx).
		Where("business_id = ? AND po_number IN ?", businessId, poNumbers).
		Find(&existing).Error
	if err != nil {
		return nil, err
	}
	for _, o := range existing {
		resolved[OrderKey{PONumber: o.PONumber, StyleId: o.StyleId}] = o
	}

	for key, rec := range wanted {
		if _, ok := resolved[key]; ok {
			continue
		}
		order := models.ProductionOrder{
			BusinessId: businessId,
			StyleId:    key.StyleId,
			PONumber:   key.PONumber,
		}
		if qty, ok := rec.Decimal("planned_qty"); ok {
			order.OrderQty = qty
		}
		if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
			if !models.IsDuplicateKeyErr(err) {
				return nil, err
			}
			if err := requeryCommitted(ctx, tx, &order,
				"business_id = ? AND style_id = ? AND po_number = ?", businessId, key.StyleId, key.PONumber).Error; err != nil {
				return nil, fmt.Errorf("order %q vanished after duplicate-key: %w", key.PONumber, err)
			}
		}
		resolved[key] = order
	}
	return resolved, nil
}

// ResolveExistingRuns loads the runs already written for this data source
// whose natural key appears in the batch, keyed by RunKey.String(). Runs are
// never created here: the writer owns inserts so it can decide between an
// initial event and a differential adjustment.
func ResolveExistingRuns(ctx context.Context, tx *gorm.DB, keys []models.RunKey, dataSourceId int) (map[string]models.ProductionRun, error) {
	resolved := map[string]models.ProductionRun{}
	if len(keys) == 0 {
		return resolved, nil
	}

	orderIds := map[int]bool{}
	for _, key := range keys {
		orderIds[key.OrderId] = true
	}
	ids := make([]int, 0, len(orderIds))
	for id := range orderIds {
		ids = append(ids, id)
	}

	var runs []models.ProductionRun
	err := tx.WithContext(ctx).
		Where("data_source_id = ? AND order_id IN ?", dataSourceId, ids).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}

	wanted := map[string]bool{}
	for _, key := range keys {
		wanted[key.String()] = true
	}
	for _, run := range runs {
		key := models.NewRunKey(run.OrderId, run.ProductionDate, run.Shift).String()
		if wanted[key] {
			resolved[key] = run
		}
	}
	return resolved, nil
}
