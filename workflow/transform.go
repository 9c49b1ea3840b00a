package workflow

import (
	"fmt"
	"strings"

	"github.com/aguo890/linesight/models"
	"github.com/aguo890/linesight/utils"
)

// numericFields are canonical fields coerced to decimal at the boundary.
var numericFields = map[string]bool{
	"actual_qty":        true,
	"planned_qty":       true,
	"sam":               true,
	"dhu":               true,
	"operators_present": true,
	"helpers_present":   true,
	"working_hours":     true,
	"defect_count":      true,
	"inspected_qty":     true,
	"efficiency_pct":    true,
}

// TransformIssue is a row-level diagnostic raised while coercing cells.
type TransformIssue struct {
	RowNumber int
	IssueType string
	Severity  models.IssueSeverity
	Message   string
}

// TransformRows applies a confirmed column map to raw rows, producing one
// ParsedRecord per row. Date-targeted columns with no explicit format are
// profiled once (constraint elimination) and the detected format is reused
// for every row, rather than re-guessing per cell.
func TransformRows(headers []string, rows [][]string, columnMap models.ColumnMap, timeFormat TimeFormat) ([]ParsedRecord, []TransformIssue) {
	type boundColumn struct {
		index  int
		target string
		format TimeFormat // only meaningful for date columns
		isDate bool
	}

	headerIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		headerIndex[h] = i
	}

	var columns []boundColumn
	for source, target := range columnMap {
		idx, ok := headerIndex[source]
		if !ok || target == "" {
			continue
		}
		col := boundColumn{index: idx, target: target, isDate: strings.Contains(target, "date")}
		if col.isDate {
			col.format = timeFormat
			if timeFormat == TimeFormatAuto {
				col.format = profileColumn(rows, idx).ParserFormat()
			}
		}
		columns = append(columns, col)
	}

	var records []ParsedRecord
	var issues []TransformIssue
	for i, row := range rows {
		rowNumber := i + 2 // row 1 is the header
		record := ParsedRecord{RowNumber: rowNumber, Fields: map[string]Value{}}
		empty := true

		for _, col := range columns {
			if col.index >= len(row) {
				continue
			}
			raw := strings.TrimSpace(row[col.index])
			if raw == "" {
				continue
			}
			empty = false

			switch {
			case col.isDate:
				t, ok, reason := ParseDateValue(raw, col.format)
				if !ok {
					issues = append(issues, TransformIssue{
						RowNumber: rowNumber,
						IssueType: "unparseable_date",
						Severity:  models.IssueSeverityWarning,
						Message:   fmt.Sprintf("column %q: %s", col.target, reason),
					})
					continue
				}
				record.Fields[col.target] = DateValue(t)
			case numericFields[col.target]:
				d, ok := utils.ParseDecimal(raw)
				if !ok {
					issues = append(issues, TransformIssue{
						RowNumber: rowNumber,
						IssueType: "unparseable_number",
						Severity:  models.IssueSeverityWarning,
						Message:   fmt.Sprintf("column %q: cannot parse %q as a number", col.target, raw),
					})
					continue
				}
				record.Fields[col.target] = NumberValue(d)
			default:
				record.Fields[col.target] = StringValue(raw)
			}
		}

		if empty {
			continue // blank padding rows at the bottom of exports
		}
		records = append(records, record)
	}
	return records, issues
}

func profileColumn(rows [][]string, index int) DateFormatProfile {
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if index < len(row) && strings.TrimSpace(row[index]) != "" {
			values = append(values, row[index])
		}
	}
	return ProfileDateColumn(values)
}
