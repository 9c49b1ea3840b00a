package workflow

import (
	"testing"
	"time"

	"github.com/aguo890/linesight/models"
)

var testColumnMap = models.ColumnMap{
	"Style No":  "style_number",
	"PO":        "po_number",
	"Prod Date": "production_date",
	"Output":    "actual_qty",
	"SAM":       "sam",
	"Operators": "operators_present",
	"Line":      "line_number",
	"Unmapped":  "",
}

var testHeaders = []string{"Style No", "PO", "Prod Date", "Output", "SAM", "Operators", "Line", "Unmapped"}

func TestTransformRowsCoercesByFieldType(t *testing.T) {
	rows := [][]string{
		{"ST-100", "PO-1", "2025-01-15", "1,250", "0.75", "24", "L-03", "ignored"},
	}
	records, issues := TransformRows(testHeaders, rows, testColumnMap, TimeFormatISO)
	if len(issues) != 0 {
		t.Fatalf("issues = %v, want none", issues)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.RowNumber != 2 {
		t.Fatalf("row number = %d, want 2 (row 1 is the header)", rec.RowNumber)
	}
	if got := rec.String("style_number"); got != "ST-100" {
		t.Fatalf("style_number = %q", got)
	}
	if qty, ok := rec.Decimal("actual_qty"); !ok || qty.String() != "1250" {
		t.Fatalf("actual_qty = %v ok=%v, want 1250 (comma stripped)", qty, ok)
	}
	if ops, ok := rec.Int("operators_present"); !ok || ops != 24 {
		t.Fatalf("operators_present = %d ok=%v, want 24", ops, ok)
	}
	if date, ok := rec.Date("production_date"); !ok || date.Day() != 15 {
		t.Fatalf("production_date = %v ok=%v, want day 15", date, ok)
	}
	if _, mapped := rec.Fields[""]; mapped {
		t.Fatal("empty-target columns must not be mapped")
	}
}

func TestTransformRowsProfilesSwappedDatesOnce(t *testing.T) {
	rows := [][]string{
		{"ST-100", "PO-1", "2025-15-01", "100", "", "", "", ""},
		{"ST-100", "PO-1", "2025-06-06", "200", "", "", "", ""},
	}
	records, issues := TransformRows(testHeaders, rows, testColumnMap, TimeFormatAuto)
	if len(issues) != 0 {
		t.Fatalf("issues = %v, want none", issues)
	}
	// profile proves YYYY-DD-MM from the first value; the ambiguous second
	// value must be read with the same detected format
	d0, _ := records[0].Date("production_date")
	assertDate(t, d0, 2025, time.January, 15)
	d1, _ := records[1].Date("production_date")
	assertDate(t, d1, 2025, time.June, 6)
}

func TestTransformRowsRaisesIssuesForBadCells(t *testing.T) {
	rows := [][]string{
		{"ST-100", "PO-1", "not a date", "abc", "", "", "", ""},
	}
	records, issues := TransformRows(testHeaders, rows, testColumnMap, TimeFormatISO)
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1 (bad cells do not drop the row)", len(records))
	}
	if len(issues) != 2 {
		t.Fatalf("issues = %d, want 2 (date and number)", len(issues))
	}
	types := map[string]bool{}
	for _, issue := range issues {
		types[issue.IssueType] = true
		if issue.RowNumber != 2 {
			t.Fatalf("issue row = %d, want 2", issue.RowNumber)
		}
		if issue.Severity != models.IssueSeverityWarning {
			t.Fatalf("issue severity = %s, want WARNING", issue.Severity)
		}
	}
	if !types["unparseable_date"] || !types["unparseable_number"] {
		t.Fatalf("issue types = %v", types)
	}
}

func TestTransformRowsSkipsBlankRows(t *testing.T) {
	rows := [][]string{
		{"ST-100", "PO-1", "2025-01-15", "100", "", "", "", ""},
		{"", "", "", "", "", "", "", ""},
		{"ST-200", "PO-2", "2025-01-16", "200", "", "", "", ""},
	}
	records, _ := TransformRows(testHeaders, rows, testColumnMap, TimeFormatISO)
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 (blank row skipped)", len(records))
	}
	if records[1].RowNumber != 4 {
		t.Fatalf("second record row = %d, want 4 (numbering counts skipped rows)", records[1].RowNumber)
	}
}

func TestTransformRowsShortRows(t *testing.T) {
	// exports often truncate trailing empty cells
	rows := [][]string{
		{"ST-100", "PO-1", "2025-01-15"},
	}
	records, issues := TransformRows(testHeaders, rows, testColumnMap, TimeFormatISO)
	if len(issues) != 0 || len(records) != 1 {
		t.Fatalf("records=%d issues=%v, want 1 record and no issues", len(records), issues)
	}
	if _, ok := records[0].Decimal("actual_qty"); ok {
		t.Fatal("missing cell must stay absent, not zero")
	}
}
