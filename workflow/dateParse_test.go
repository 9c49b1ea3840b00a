package workflow

import (
	"testing"
	"time"
)

func assertDate(t *testing.T, got time.Time, year int, month time.Month, day int) {
	t.Helper()
	if got.Year() != year || got.Month() != month || got.Day() != day {
		t.Fatalf("date = %s, want %04d-%02d-%02d", got.Format("2006-01-02"), year, month, day)
	}
}

func TestParseDateValueNativeTime(t *testing.T) {
	want := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	got, ok, _ := ParseDateValue(want, TimeFormatAuto)
	if !ok || !got.Equal(want) {
		t.Fatalf("native time not passed through: got %v ok=%v", got, ok)
	}
}

func TestParseDateValueExplicitISO(t *testing.T) {
	got, ok, _ := ParseDateValue("2025-01-15", TimeFormatISO)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	assertDate(t, got, 2025, time.January, 15)
}

func TestParseDateValueSwappedLayout(t *testing.T) {
	// year-day-month: 2025-15-01 means 15 January
	got, ok, _ := ParseDateValue("2025-15-01", TimeFormatYearDayMonth)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	assertDate(t, got, 2025, time.January, 15)
}

func TestParseDateValueISOWithTimeSuffix(t *testing.T) {
	got, ok, _ := ParseDateValue("2025-01-15 08:30:00", TimeFormatISO)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	assertDate(t, got, 2025, time.January, 15)
}

func TestParseDateValueExcelSerial(t *testing.T) {
	got, ok, _ := ParseDateValue(float64(44927), TimeFormatAuto)
	if !ok {
		t.Fatal("expected serial to parse")
	}
	assertDate(t, got, 2023, time.January, 1)
}

func TestParseDateValueSerialAsText(t *testing.T) {
	got, ok, _ := ParseDateValue("44927", TimeFormatAuto)
	if !ok {
		t.Fatal("expected serial text to parse")
	}
	assertDate(t, got, 2023, time.January, 1)
}

func TestParseDateValueSerialOutOfRange(t *testing.T) {
	_, ok, reason := ParseDateValue(float64(2500000), TimeFormatAuto)
	if ok {
		t.Fatal("expected out-of-range serial to fail")
	}
	if reason == "" {
		t.Fatal("expected a diagnostic reason")
	}
}

func TestParseDateValueDayFirstHeuristic(t *testing.T) {
	got, ok, _ := ParseDateValue("15/01/2025", TimeFormatAuto)
	if !ok {
		t.Fatal("expected day-first parse to succeed")
	}
	assertDate(t, got, 2025, time.January, 15)
}

func TestParseDateValueGenericFallback(t *testing.T) {
	got, ok, _ := ParseDateValue("Jan 2, 2025", TimeFormatAuto)
	if !ok {
		t.Fatal("expected generic layout to parse")
	}
	assertDate(t, got, 2025, time.January, 2)
}

func TestParseDateValueFailuresNeverPanic(t *testing.T) {
	cases := []any{"", "garbage", "2025-99-99", nil, struct{}{}}
	for _, raw := range cases {
		_, ok, reason := ParseDateValue(raw, TimeFormatISO)
		if ok {
			t.Fatalf("ParseDateValue(%v) unexpectedly succeeded", raw)
		}
		if reason == "" {
			t.Fatalf("ParseDateValue(%v) returned no reason", raw)
		}
	}
}
