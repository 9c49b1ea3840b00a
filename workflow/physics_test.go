package workflow

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/aguo890/linesight/models"
)

func record(rowNumber int, fields map[string]Value) ParsedRecord {
	return ParsedRecord{RowNumber: rowNumber, Fields: fields}
}

func num(s string) Value {
	d, _ := decimal.NewFromString(s)
	return NumberValue(d)
}

func TestValidateProductionPhysicsPlausibleRow(t *testing.T) {
	warnings := ValidateProductionPhysics([]ParsedRecord{
		record(2, map[string]Value{
			"actual_qty":        num("400"),
			"sam":               num("12.5"),
			"operators_present": num("25"),
			"helpers_present":   num("5"),
			"working_hours":     num("8"),
		}),
	})
	// earned 5000 vs available 14400 -> ~35%, healthy
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
}

func TestValidateProductionPhysicsImpossibleEfficiency(t *testing.T) {
	warnings := ValidateProductionPhysics([]ParsedRecord{
		record(3, map[string]Value{
			"actual_qty":        num("1000"),
			"sam":               num("10"),
			"operators_present": num("2"),
			"working_hours":     num("1"),
		}),
	})
	// earned 10000 min vs available 120 min -> 8333%
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	w := warnings[0]
	if w.IssueType != "impossible_efficiency" || w.Severity != models.IssueSeverityCritical {
		t.Fatalf("warning = %+v, want critical impossible_efficiency", w)
	}
	if w.RowNumber != 3 {
		t.Fatalf("row = %d, want 3", w.RowNumber)
	}
}

func TestValidateProductionPhysicsSuspiciousEfficiency(t *testing.T) {
	warnings := ValidateProductionPhysics([]ParsedRecord{
		record(2, map[string]Value{
			"actual_qty":        num("1000"),
			"sam":               num("1"),
			"operators_present": num("2"),
			"working_hours":     num("4"),
		}),
	})
	// earned 1000 vs available 480 -> ~208%, suspicious but not impossible
	if len(warnings) != 1 || warnings[0].IssueType != "suspicious_efficiency" {
		t.Fatalf("warnings = %v, want one suspicious_efficiency", warnings)
	}
	if warnings[0].Severity != models.IssueSeverityWarning {
		t.Fatalf("severity = %s, want WARNING", warnings[0].Severity)
	}
}

func TestValidateProductionPhysicsNegativeQuantity(t *testing.T) {
	warnings := ValidateProductionPhysics([]ParsedRecord{
		record(2, map[string]Value{"actual_qty": num("-50")}),
	})
	if len(warnings) != 1 || warnings[0].IssueType != "negative_quantity" {
		t.Fatalf("warnings = %v, want one negative_quantity", warnings)
	}
	if warnings[0].Severity != models.IssueSeverityCritical {
		t.Fatalf("severity = %s, want CRITICAL", warnings[0].Severity)
	}
}

func TestValidateProductionPhysicsOutputWithoutCapacity(t *testing.T) {
	warnings := ValidateProductionPhysics([]ParsedRecord{
		record(2, map[string]Value{
			"actual_qty": num("500"),
			"sam":        num("2"),
		}),
	})
	if len(warnings) != 1 || warnings[0].IssueType != "output_without_capacity" {
		t.Fatalf("warnings = %v, want one output_without_capacity", warnings)
	}
}

func TestValidateProductionPhysicsDefaultShiftMinutes(t *testing.T) {
	// no working-hours column: 480 minutes are assumed per head
	warnings := ValidateProductionPhysics([]ParsedRecord{
		record(2, map[string]Value{
			"actual_qty":        num("100"),
			"sam":               num("2"),
			"operators_present": num("10"),
		}),
	})
	// earned 200 vs available 4800 -> ~4%
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none with the default shift", warnings)
	}
}

func TestValidateProductionPhysicsThresholdBoundaries(t *testing.T) {
	// one operator, default 480-minute shift, sam 1: qty == earned minutes
	row := func(qty string) ParsedRecord {
		return record(2, map[string]Value{
			"actual_qty":        num(qty),
			"sam":               num("1"),
			"operators_present": num("1"),
		})
	}

	// exactly 150% is still plausible; the thresholds are exclusive
	if w := ValidateProductionPhysics([]ParsedRecord{row("720")}); len(w) != 0 {
		t.Fatalf("exactly 150%% flagged: %v", w)
	}
	if w := ValidateProductionPhysics([]ParsedRecord{row("725")}); len(w) != 1 || w[0].IssueType != "suspicious_efficiency" {
		t.Fatalf("just above 150%% = %v, want suspicious_efficiency", w)
	}
	if w := ValidateProductionPhysics([]ParsedRecord{row("4800")}); len(w) != 1 || w[0].IssueType != "suspicious_efficiency" {
		t.Fatalf("exactly 1000%% = %v, want suspicious (not critical)", w)
	}
	if w := ValidateProductionPhysics([]ParsedRecord{row("4805")}); len(w) != 1 || w[0].IssueType != "impossible_efficiency" {
		t.Fatalf("above 1000%% = %v, want impossible_efficiency", w)
	}
}

func TestValidateProductionPhysicsSkipsIncompleteRows(t *testing.T) {
	warnings := ValidateProductionPhysics([]ParsedRecord{
		record(2, map[string]Value{"actual_qty": num("100")}),
		record(3, map[string]Value{"sam": num("1.5")}),
		record(4, map[string]Value{}),
	})
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none without qty and sam", warnings)
	}
}
