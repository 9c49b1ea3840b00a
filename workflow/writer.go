package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aguo890/linesight/models"
)

const childInsertBatchSize = 500

// WriteBatch binds one promotion's parsed rows to their resolved parents.
type WriteBatch struct {
	BusinessId   string
	DataSourceId int
	ImportId     int
	Records      []ParsedRecord
	Styles       map[string]models.Style
	Orders       map[OrderKey]models.ProductionOrder
	ExistingRuns map[string]models.ProductionRun
}

// WriteResult sums what one promotion actually wrote.
type WriteResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Events   int `json:"events"`
	Errors   int `json:"errors"`
}

type stagedInsert struct {
	run        models.ProductionRun
	event      models.ProductionEvent
	metric     models.EfficiencyMetric
	inspection models.QualityInspection
}

type stagedUpdate struct {
	run   models.ProductionRun // with new totals applied
	event models.ProductionEvent
}

type stagedBatch struct {
	inserts []stagedInsert
	updates []stagedUpdate
	issues  []TransformIssue
	errors  []string
}

// stageRecords splits the batch into inserts and differential updates
// without touching the database. Rows that cannot resolve to an order, or
// whose quantity change is zero, produce no staged work.
func stageRecords(batch WriteBatch) stagedBatch {
	var staged stagedBatch
	seen := map[string]bool{}

	for _, rec := range batch.Records {
		date, ok := rec.Date("production_date")
		if !ok {
			staged.issues = append(staged.issues, TransformIssue{
				RowNumber: rec.RowNumber,
				IssueType: "missing_date",
				Severity:  models.IssueSeverityCritical,
				Message:   "row has no parseable production date",
			})
			staged.errors = append(staged.errors, fmt.Sprintf("row %d: no production date", rec.RowNumber))
			continue
		}

		style, styleOk := batch.Styles[rec.String("style_number")]
		if !styleOk {
			staged.issues = append(staged.issues, TransformIssue{
				RowNumber: rec.RowNumber,
				IssueType: "unresolved_style",
				Severity:  models.IssueSeverityCritical,
				Message:   fmt.Sprintf("no style resolved for %q", rec.String("style_number")),
			})
			staged.errors = append(staged.errors, fmt.Sprintf("row %d: unresolved style %q", rec.RowNumber, rec.String("style_number")))
			continue
		}
		order, orderOk := batch.Orders[OrderKey{PONumber: rec.String("po_number"), StyleId: style.ID}]
		if !orderOk {
			staged.issues = append(staged.issues, TransformIssue{
				RowNumber: rec.RowNumber,
				IssueType: "unresolved_order",
				Severity:  models.IssueSeverityCritical,
				Message:   fmt.Sprintf("no order resolved for %q", rec.String("po_number")),
			})
			staged.errors = append(staged.errors, fmt.Sprintf("row %d: unresolved order %q", rec.RowNumber, rec.String("po_number")))
			continue
		}

		shift := strings.ToUpper(rec.String("shift"))
		if shift == "" {
			shift = "DAY"
		}
		key := models.NewRunKey(order.ID, date, shift).String()
		if seen[key] {
			staged.issues = append(staged.issues, TransformIssue{
				RowNumber: rec.RowNumber,
				IssueType: "duplicate_row",
				Severity:  models.IssueSeverityWarning,
				Message:   fmt.Sprintf("another row in this file already covers order %d on %s (%s shift)", order.ID, date.Format("2006-01-02"), shift),
			})
			continue
		}
		seen[key] = true

		qty, _ := rec.Decimal("actual_qty")

		if existing, ok := batch.ExistingRuns[key]; ok {
			delta := qty.Sub(existing.ActualQty)
			if delta.IsZero() {
				continue // idempotent re-ingest, nothing changed
			}
			updated := existing
			applyRecordFields(&updated, rec, qty)
			staged.updates = append(staged.updates, stagedUpdate{
				run: updated,
				event: models.ProductionEvent{
					RunId:     existing.ID,
					EventType: models.EventTypeAdjustment,
					Quantity:  delta,
					RowNumber: rec.RowNumber,
				},
			})
			continue
		}

		run := models.ProductionRun{
			ID:             uuid.NewString(),
			BusinessId:     batch.BusinessId,
			DataSourceId:   batch.DataSourceId,
			OrderId:        order.ID,
			ProductionDate: date,
			Shift:          shift,
		}
		applyRecordFields(&run, rec, qty)

		earned, available, efficiency := efficiencyFor(run)
		inspected, _ := rec.Decimal("inspected_qty")
		defects, _ := rec.Int("defect_count")
		dhu, _ := rec.Decimal("dhu")

		staged.inserts = append(staged.inserts, stagedInsert{
			run: run,
			event: models.ProductionEvent{
				RunId:     run.ID,
				EventType: models.EventTypeInitial,
				Quantity:  qty,
				RowNumber: rec.RowNumber,
			},
			metric: models.EfficiencyMetric{
				RunId:            run.ID,
				EarnedMinutes:    earned,
				AvailableMinutes: available,
				EfficiencyPct:    efficiency,
			},
			inspection: models.QualityInspection{
				RunId:          run.ID,
				InspectionType: models.InspectionTypeEndline,
				InspectedQty:   inspected,
				DefectCount:    defects,
				DHU:            dhu,
			},
		})
	}
	return staged
}

func applyRecordFields(run *models.ProductionRun, rec ParsedRecord, qty decimal.Decimal) {
	run.ActualQty = qty
	if planned, ok := rec.Decimal("planned_qty"); ok {
		run.PlannedQty = planned
	}
	if sam, ok := rec.Decimal("sam"); ok {
		run.SAM = sam
	}
	if dhu, ok := rec.Decimal("dhu"); ok {
		run.DHU = dhu
	}
	if operators, ok := rec.Int("operators_present"); ok {
		run.OperatorsPresent = operators
	}
	if helpers, ok := rec.Int("helpers_present"); ok {
		run.HelpersPresent = helpers
	}
	if hours, ok := rec.Decimal("working_hours"); ok {
		run.WorkedMinutes = hours.Mul(decimal.NewFromInt(60))
	}
	if line := rec.String("line_number"); line != "" {
		run.LineNumber = line
	}
}

func efficiencyFor(run models.ProductionRun) (earned, available, efficiency decimal.Decimal) {
	earned = run.ActualQty.Mul(run.SAM)
	minutes := run.WorkedMinutes
	if !minutes.IsPositive() {
		minutes = decimal.NewFromInt(DefaultShiftMinutes)
	}
	available = decimal.NewFromInt(int64(run.OperatorsPresent + run.HelpersPresent)).Mul(minutes)
	if available.IsPositive() {
		efficiency = earned.Div(available).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return earned, available, efficiency
}

// WriteRecords persists one promotion's staged work inside the caller's
// transaction. Rows that failed staging are skipped and counted; any error
// during the write itself propagates so the caller rolls back the whole
// batch. Runs go through an upsert on their natural key, so a concurrent
// promotion that inserted the same run first simply turns our insert into an
// update of that row. MySQL cannot return the surviving ID from the upsert,
// so actual IDs are re-selected by natural key and child rows are remapped
// before their batch insert.
func WriteRecords(ctx context.Context, tx *gorm.DB, batch WriteBatch) (WriteResult, []TransformIssue, error) {
	staged := stageRecords(batch)
	result := WriteResult{Errors: len(staged.errors)}

	if len(staged.inserts) > 0 {
		runs := make([]models.ProductionRun, len(staged.inserts))
		for i, ins := range staged.inserts {
			runs[i] = ins.run
		}
		err := tx.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "data_source_id"}, {Name: "order_id"}, {Name: "production_date"}, {Name: "shift"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"actual_qty", "planned_qty", "sam", "dhu",
				"operators_present", "helpers_present", "worked_minutes", "line_number",
			}),
		}).Create(&runs).Error
		if err != nil {
			return result, staged.issues, fmt.Errorf("upsert runs: %w", err)
		}

		actualIds, err := reselectRunIds(ctx, tx, batch.DataSourceId, staged.inserts)
		if err != nil {
			return result, staged.issues, err
		}

		events := make([]models.ProductionEvent, 0, len(staged.inserts))
		metrics := make([]models.EfficiencyMetric, 0, len(staged.inserts))
		inspections := make([]models.QualityInspection, 0, len(staged.inserts))
		for _, ins := range staged.inserts {
			actual, ok := actualIds[ins.run.ID]
			if !ok {
				return result, staged.issues, fmt.Errorf("run %s missing after upsert", ins.run.ID)
			}
			ins.event.RunId = actual
			ins.metric.RunId = actual
			ins.inspection.RunId = actual
			events = append(events, ins.event)
			metrics = append(metrics, ins.metric)
			inspections = append(inspections, ins.inspection)
		}
		if err := tx.WithContext(ctx).CreateInBatches(events, childInsertBatchSize).Error; err != nil {
			return result, staged.issues, fmt.Errorf("insert events: %w", err)
		}
		if err := tx.WithContext(ctx).CreateInBatches(metrics, childInsertBatchSize).Error; err != nil {
			return result, staged.issues, fmt.Errorf("insert metrics: %w", err)
		}
		if err := tx.WithContext(ctx).CreateInBatches(inspections, childInsertBatchSize).Error; err != nil {
			return result, staged.issues, fmt.Errorf("insert inspections: %w", err)
		}
		result.Inserted = len(staged.inserts)
		result.Events += len(events)
	}

	if len(staged.updates) > 0 {
		events := make([]models.ProductionEvent, 0, len(staged.updates))
		for _, upd := range staged.updates {
			err := tx.WithContext(ctx).Model(&models.ProductionRun{}).
				Where("id = ?", upd.run.ID).
				Updates(map[string]any{
					"actual_qty":        upd.run.ActualQty,
					"planned_qty":       upd.run.PlannedQty,
					"sam":               upd.run.SAM,
					"dhu":               upd.run.DHU,
					"operators_present": upd.run.OperatorsPresent,
					"helpers_present":   upd.run.HelpersPresent,
					"worked_minutes":    upd.run.WorkedMinutes,
					"line_number":       upd.run.LineNumber,
				}).Error
			if err != nil {
				return result, staged.issues, fmt.Errorf("update run %s: %w", upd.run.ID, err)
			}
			events = append(events, upd.event)
		}
		if err := tx.WithContext(ctx).CreateInBatches(events, childInsertBatchSize).Error; err != nil {
			return result, staged.issues, fmt.Errorf("insert adjustment events: %w", err)
		}
		result.Updated = len(staged.updates)
		result.Events += len(events)
	}

	return result, staged.issues, nil
}

func reselectRunIds(ctx context.Context, tx *gorm.DB, dataSourceId int, inserts []stagedInsert) (map[string]string, error) {
	orderIds := map[int]bool{}
	for _, ins := range inserts {
		orderIds[ins.run.OrderId] = true
	}
	ids := make([]int, 0, len(orderIds))
	for id := range orderIds {
		ids = append(ids, id)
	}

	var rows []models.ProductionRun
	err := tx.WithContext(ctx).
		Select("id", "order_id", "production_date", "shift").
		Where("data_source_id = ? AND order_id IN ?", dataSourceId, ids).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("reselect runs: %w", err)
	}

	byKey := make(map[string]string, len(rows))
	for _, row := range rows {
		byKey[models.NewRunKey(row.OrderId, row.ProductionDate, row.Shift).String()] = row.ID
	}

	actual := make(map[string]string, len(inserts))
	for _, ins := range inserts {
		key := models.NewRunKey(ins.run.OrderId, ins.run.ProductionDate, ins.run.Shift).String()
		if id, ok := byKey[key]; ok {
			actual[ins.run.ID] = id
		}
	}
	return actual, nil
}
