package workflow

import (
	"time"

	"github.com/shopspring/decimal"
)

type ValueKind int

const (
	ValueNil ValueKind = iota
	ValueString
	ValueNumber
	ValueDate
	ValueBool
)

// Value is the small variant a spreadsheet cell is coerced into at the
// mapping boundary. Business logic downstream only ever sees these kinds,
// never raw interface{} cells.
type Value struct {
	Kind ValueKind
	Str  string
	Num  decimal.Decimal
	Date time.Time
	Bool bool
}

func NilValue() Value                     { return Value{Kind: ValueNil} }
func StringValue(s string) Value          { return Value{Kind: ValueString, Str: s} }
func NumberValue(d decimal.Decimal) Value { return Value{Kind: ValueNumber, Num: d} }
func DateValue(t time.Time) Value         { return Value{Kind: ValueDate, Date: t} }
func BoolValue(b bool) Value              { return Value{Kind: ValueBool, Bool: b} }

func (v Value) IsNil() bool { return v.Kind == ValueNil }

// ParsedRecord is one source row after column mapping and coercion, keyed by
// canonical field. Transient: it exists only within one ingestion pass.
type ParsedRecord struct {
	RowNumber int
	Fields    map[string]Value
}

func (r ParsedRecord) String(field string) string {
	v, ok := r.Fields[field]
	if !ok {
		return ""
	}
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueNumber:
		return v.Num.String()
	default:
		return ""
	}
}

func (r ParsedRecord) Decimal(field string) (decimal.Decimal, bool) {
	v, ok := r.Fields[field]
	if !ok || v.Kind != ValueNumber {
		return decimal.Zero, false
	}
	return v.Num, true
}

func (r ParsedRecord) Int(field string) (int, bool) {
	d, ok := r.Decimal(field)
	if !ok {
		return 0, false
	}
	return int(d.IntPart()), true
}

func (r ParsedRecord) Date(field string) (time.Time, bool) {
	v, ok := r.Fields[field]
	if !ok || v.Kind != ValueDate {
		return time.Time{}, false
	}
	return v.Date, true
}
