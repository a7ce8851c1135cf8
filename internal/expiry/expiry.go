// Package expiry converts expiry dates to the year fractions the pricing
// models consume, using the exchange calendar for trading-day counts.
package expiry

import (
	"fmt"
	"time"

	"github.com/scmhub/calendar"
)

const (
	// DateLayout is the wire format for expiry dates.
	DateLayout = "2006-01-02"

	calendarDaysPerYear = 365.0
	tradingDaysPerYear  = 252.0
)

// NYSE returns the New York Stock Exchange calendar.
func NYSE() *calendar.Calendar {
	return calendar.XNYS()
}

// ForName resolves a configured calendar name.
func ForName(name string) (*calendar.Calendar, error) {
	switch name {
	case "", "XNYS", "NYSE":
		return calendar.XNYS(), nil
	default:
		return nil, fmt.Errorf("unknown calendar %q", name)
	}
}

// ParseDate parses an expiry date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expiry date %q: %w", s, err)
	}
	return t, nil
}

// YearFraction is the ACT/365 calendar-day fraction between two times.
// Expired dates yield 0, never a negative fraction.
func YearFraction(from, to time.Time) float64 {
	if !to.After(from) {
		return 0
	}
	return to.Sub(from).Hours() / 24 / calendarDaysPerYear
}

// TradingDays counts the business days in (from, to], per the calendar.
func TradingDays(cal *calendar.Calendar, from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	days := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if cal.IsBusinessDay(d) {
			days++
		}
	}
	return days
}

// TradingYearFraction is the trading-day fraction between two times,
// against a 252-day year.
func TradingYearFraction(cal *calendar.Calendar, from, to time.Time) float64 {
	return float64(TradingDays(cal, from, to)) / tradingDaysPerYear
}
