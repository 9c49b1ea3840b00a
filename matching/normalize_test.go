package matching

import "testing"

func TestNormalizeHeader(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Style Number", "style_number"},
		{"  PO-Number ", "po_number"},
		{"Actual Qty / Day", "actual_qty_day"},
		{"Efficiency %", "efficiency_pct"},
		{"DHU%", "dhu_pct"},
		{"line__no", "line_no"},
		{"__shift__", "shift"},
		{"Prod.Date", "prod_date"},
		{"操作", ""},
	}
	for _, c := range cases {
		if got := NormalizeHeader(c.in); got != c.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeHeaderIdempotent(t *testing.T) {
	headers := []string{"Style Number", "ACTUAL-QTY", "efficiency %", "Total SAM"}
	for _, h := range headers {
		once := NormalizeHeader(h)
		if twice := NormalizeHeader(once); twice != once {
			t.Errorf("normalization not idempotent for %q: %q -> %q", h, once, twice)
		}
	}
}
