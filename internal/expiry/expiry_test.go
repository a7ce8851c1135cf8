package expiry

import (
	"math"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2027-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2027 || got.Month() != time.January || got.Day() != 15 {
		t.Errorf("unexpected date: %v", got)
	}

	if _, err := ParseDate("15/01/2027"); err == nil {
		t.Error("expected error for wrong date layout")
	}
}

func TestYearFraction(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	got := YearFraction(from, to)
	if math.Abs(got-1.0) > 0.01 {
		t.Errorf("expected roughly one year, got %v", got)
	}
}

func TestYearFraction_PastDateClampsToZero(t *testing.T) {
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, -1, 0)

	if got := YearFraction(from, to); got != 0 {
		t.Errorf("expected zero for expired date, got %v", got)
	}
}

func TestTradingDays_PlainWeek(t *testing.T) {
	cal := NYSE()

	// Monday through Friday of a holiday-free week.
	mon := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	fri := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

	// The interval is exclusive of the start day.
	if got := TradingDays(cal, mon, fri); got != 4 {
		t.Errorf("expected 4 trading days Tue-Fri, got %d", got)
	}
}

func TestTradingDays_WeekendContributesNothing(t *testing.T) {
	cal := NYSE()

	fri := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	sun := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	if got := TradingDays(cal, fri, sun); got != 0 {
		t.Errorf("expected no trading days over a weekend, got %d", got)
	}
}

func TestTradingYearFraction(t *testing.T) {
	cal := NYSE()

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	got := TradingYearFraction(cal, from, to)
	want := 5.0 / 252.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestForName(t *testing.T) {
	if _, err := ForName("XNYS"); err != nil {
		t.Errorf("expected XNYS to resolve, got: %v", err)
	}
	if _, err := ForName(""); err != nil {
		t.Errorf("expected empty name to default, got: %v", err)
	}
	if _, err := ForName("XMARS"); err == nil {
		t.Error("expected error for unknown calendar")
	}
}
