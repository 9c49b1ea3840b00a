package workflow

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aguo890/linesight/models"
)

const (
	// EfficiencyWarningThreshold is the efficiency percentage above which a
	// run is flagged for review. World-class lines peak around 85-90%, so
	// anything past 150% almost always means a unit or mapping mistake.
	EfficiencyWarningThreshold = 150

	// EfficiencyCriticalThreshold marks efficiencies that are physically
	// impossible and nearly always a swapped column or a SAM in hours.
	EfficiencyCriticalThreshold = 1000

	// DefaultShiftMinutes is assumed when a sheet carries no working-hours
	// column. One standard 8-hour shift.
	DefaultShiftMinutes = 480
)

// PhysicsWarning flags a row whose numbers are implausible for a sewing
// line. Warnings never block promotion; they surface as quality issues.
type PhysicsWarning struct {
	RowNumber int
	Severity  models.IssueSeverity
	IssueType string
	Message   string
}

// ValidateProductionPhysics cross-checks each row's quantity, SAM, manpower
// and minutes against what a physical line could produce. Pure: no I/O.
func ValidateProductionPhysics(records []ParsedRecord) []PhysicsWarning {
	var warnings []PhysicsWarning
	for _, rec := range records {
		warnings = append(warnings, validateRow(rec)...)
	}
	return warnings
}

func validateRow(rec ParsedRecord) []PhysicsWarning {
	var warnings []PhysicsWarning

	qty, hasQty := rec.Decimal("actual_qty")
	if hasQty && qty.IsNegative() {
		warnings = append(warnings, PhysicsWarning{
			RowNumber: rec.RowNumber,
			Severity:  models.IssueSeverityCritical,
			IssueType: "negative_quantity",
			Message:   fmt.Sprintf("actual quantity %s is negative", qty.String()),
		})
		return warnings
	}

	sam, hasSAM := rec.Decimal("sam")
	if !hasQty || !hasSAM || qty.IsZero() || sam.IsZero() {
		return warnings
	}

	operators, _ := rec.Int("operators_present")
	helpers, _ := rec.Int("helpers_present")
	headcount := operators + helpers

	minutes := decimal.NewFromInt(DefaultShiftMinutes)
	if hours, ok := rec.Decimal("working_hours"); ok && hours.IsPositive() {
		minutes = hours.Mul(decimal.NewFromInt(60))
	}

	available := decimal.NewFromInt(int64(headcount)).Mul(minutes)
	if !available.IsPositive() {
		warnings = append(warnings, PhysicsWarning{
			RowNumber: rec.RowNumber,
			Severity:  models.IssueSeverityWarning,
			IssueType: "output_without_capacity",
			Message:   fmt.Sprintf("produced %s units with no recorded manpower or minutes", qty.String()),
		})
		return warnings
	}

	earned := qty.Mul(sam)
	efficiency := earned.Div(available).Mul(decimal.NewFromInt(100))

	switch {
	case efficiency.GreaterThan(decimal.NewFromInt(EfficiencyCriticalThreshold)):
		warnings = append(warnings, PhysicsWarning{
			RowNumber: rec.RowNumber,
			Severity:  models.IssueSeverityCritical,
			IssueType: "impossible_efficiency",
			Message: fmt.Sprintf("efficiency %s%% (qty=%s, sam=%s, headcount=%d, minutes=%s) is physically impossible; check units",
				efficiency.Round(1).String(), qty.String(), sam.String(), headcount, minutes.String()),
		})
	case efficiency.GreaterThan(decimal.NewFromInt(EfficiencyWarningThreshold)):
		warnings = append(warnings, PhysicsWarning{
			RowNumber: rec.RowNumber,
			Severity:  models.IssueSeverityWarning,
			IssueType: "suspicious_efficiency",
			Message: fmt.Sprintf("efficiency %s%% exceeds plausible line performance",
				efficiency.Round(1).String()),
		})
	}
	return warnings
}
