package workflow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// TimeFormat is the closed set of date conventions a data source may declare.
// "auto" defers to column profiling.
type TimeFormat string

const (
	TimeFormatAuto TimeFormat = "auto"

	TimeFormatISO           TimeFormat = "YYYY-MM-DD"
	TimeFormatYearDayMonth  TimeFormat = "YYYY-DD-MM"
	TimeFormatDayMonthSlash TimeFormat = "DD/MM/YYYY"
	TimeFormatMonthDaySlash TimeFormat = "MM/DD/YYYY"
	TimeFormatDayMonthDash  TimeFormat = "DD-MM-YYYY"
	TimeFormatMonthDayDash  TimeFormat = "MM-DD-YYYY"

	TimeFormatISOWithTime           TimeFormat = "YYYY-MM-DD HH:MM"
	TimeFormatDayMonthSlashWithTime TimeFormat = "DD/MM/YYYY HH:MM"
	TimeFormatMonthDaySlashWithTime TimeFormat = "MM/DD/YYYY HH:MM"
)

var formatLayouts = map[TimeFormat]string{
	TimeFormatISO:           "2006-01-02",
	TimeFormatYearDayMonth:  "2006-02-01",
	TimeFormatDayMonthSlash: "02/01/2006",
	TimeFormatMonthDaySlash: "01/02/2006",
	TimeFormatDayMonthDash:  "02-01-2006",
	TimeFormatMonthDayDash:  "01-02-2006",

	TimeFormatISOWithTime:           "2006-01-02 15:04",
	TimeFormatDayMonthSlashWithTime: "02/01/2006 15:04",
	TimeFormatMonthDaySlashWithTime: "01/02/2006 15:04",
}

func IsKnownTimeFormat(f TimeFormat) bool {
	if f == TimeFormatAuto {
		return true
	}
	_, ok := formatLayouts[f]
	return ok
}

// Spreadsheet serial dates: integers/floats in this range are treated as
// days since the Excel epoch (1899-12-30), fractional part as time-of-day.
const (
	serialDateMin = 1
	serialDateMax = 100000
)

// dayFirstLayouts implement the international-convention heuristic: when no
// explicit format applies, a separated numeric date is read day-first.
var dayFirstLayouts = []string{
	"2/1/2006",
	"02/01/2006",
	"2-1-2006",
	"02-01-2006",
	"2.1.2006",
	"2/1/2006 15:04",
	"02/01/2006 15:04:05",
}

// genericLayouts are the last-resort pass, equivalent to a tabular library's
// permissive date coercion.
var genericLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"01/02/2006",
}

// ParseDateValue parses a single cell through a tolerant waterfall: native
// passthrough, the explicit/profiled format, spreadsheet serial numbers,
// day-first heuristics, then generic layouts. All failures return ok=false
// with a diagnostic reason; a bad date never aborts the batch.
func ParseDateValue(raw any, format TimeFormat) (time.Time, bool, string) {
	switch v := raw.(type) {
	case time.Time:
		return v, true, ""
	case *time.Time:
		if v != nil {
			return *v, true, ""
		}
		return time.Time{}, false, "nil time value"
	case float64:
		if t, ok := serialToTime(v); ok {
			return t, true, ""
		}
		return time.Time{}, false, fmt.Sprintf("numeric value %v outside serial date range", v)
	case int:
		if t, ok := serialToTime(float64(v)); ok {
			return t, true, ""
		}
		return time.Time{}, false, fmt.Sprintf("numeric value %d outside serial date range", v)
	case string:
		return parseDateString(v, format)
	default:
		return time.Time{}, false, fmt.Sprintf("unsupported value type %T", raw)
	}
}

func parseDateString(raw string, format TimeFormat) (time.Time, bool, string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false, "empty value"
	}

	// explicit/profiled format, tried strictly first
	if layout, ok := formatLayouts[format]; ok {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true, ""
		}
		// ISO with a time suffix still counts for a date-only format
		if t, err := time.Parse(layout+" 15:04:05", s); err == nil {
			return t, true, ""
		}
	}

	// spreadsheet serial rendered as text
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if t, ok := serialToTime(serial); ok {
			return t, true, ""
		}
		return time.Time{}, false, fmt.Sprintf("numeric value %q outside serial date range", s)
	}

	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true, ""
		}
	}
	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true, ""
		}
	}

	return time.Time{}, false, fmt.Sprintf("unparseable date %q", raw)
}

func serialToTime(serial float64) (time.Time, bool) {
	if serial < serialDateMin || serial > serialDateMax {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
