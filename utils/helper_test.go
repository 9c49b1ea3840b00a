package utils

import "testing"

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"1250", "1250", true},
		{"1,250", "1250", true},
		{" 1,250.50 ", "1250.5", true},
		{"85%", "85", true},
		{"-50", "-50", true},
		{"", "", false},
		{"n/a", "", false},
		{"12..5", "", false},
	}
	for _, c := range cases {
		got, ok := ParseDecimal(c.raw)
		if ok != c.ok {
			t.Fatalf("ParseDecimal(%q) ok = %v, want %v", c.raw, ok, c.ok)
		}
		if ok && got.String() != c.want {
			t.Fatalf("ParseDecimal(%q) = %s, want %s", c.raw, got.String(), c.want)
		}
	}
}
