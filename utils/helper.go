package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

func NewString(s string) *string {
	return &s
}

// ParseDecimal is a tolerant numeric parse for spreadsheet cells: trims
// whitespace, thousands separators and a trailing percent sign.
func ParseDecimal(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
