// Package recurrence holds the pure calendar arithmetic behind the autopilot
// engine: next due dates for monthly-anchored bills, subscription cycle
// stepping, payday parsing and frequency normalization.
package recurrence

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	monthlyCycleDays = 30
	yearlyCycleDays  = 365
)

// DaysInMonth returns the number of days in the month containing t.
func DaysInMonth(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}

// MonthSafeDay clamps day to the valid range for the given year/month.
// A day-31 anchor in a 30-day month resolves to 30, not an error.
func MonthSafeDay(year int, month time.Month, day int) int {
	last := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
	if day < 1 {
		return 1
	}
	if day > last {
		return last
	}
	return day
}

// StartOfDay zeroes the time component of t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthEnd returns midnight on the last day of t's month.
func MonthEnd(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// NextRecurringDate computes the next occurrence of a monthly-anchored day of
// month, with time zeroed. If the clamped day in the current month is today
// or later it is returned; otherwise the clamped day in the following month.
func NextRecurringDate(now time.Time, dayOfMonth int) time.Time {
	safeDay := MonthSafeDay(now.Year(), now.Month(), dayOfMonth)
	current := time.Date(now.Year(), now.Month(), safeDay, 0, 0, 0, 0, now.Location())
	if !current.Before(StartOfDay(now)) {
		return current
	}

	nextAnchor := StartOfMonth(now).AddDate(0, 1, 0)
	nextSafeDay := MonthSafeDay(nextAnchor.Year(), nextAnchor.Month(), dayOfMonth)
	return time.Date(nextAnchor.Year(), nextAnchor.Month(), nextSafeDay, 0, 0, 0, 0, now.Location())
}

// CycleDays maps a subscription billing cycle to its length in days.
// Anything that is not monthly is treated as yearly-like.
func CycleDays(billingCycle string) int {
	if billingCycle == "" || billingCycle == "monthly" {
		return monthlyCycleDays
	}
	return yearlyCycleDays
}

// NextSubscriptionDueDate resolves when a subscription next bills. A stored
// next-billing date is stepped forward cycle by cycle while it remains
// strictly in the past; absent a stored date the first cycle starts now.
func NextSubscriptionDueDate(now time.Time, nextBillingDate *time.Time, billingCycle string) time.Time {
	cycle := CycleDays(billingCycle)
	if nextBillingDate == nil {
		return now.AddDate(0, 0, cycle)
	}
	due := *nextBillingDate
	today := StartOfDay(now)
	for StartOfDay(due).Before(today) {
		due = due.AddDate(0, 0, cycle)
	}
	return due
}

// MonthlyMultiplier converts a frequency to its average-per-month factor.
// Unknown frequencies default to monthly.
func MonthlyMultiplier(frequency string) decimal.Decimal {
	switch normalizeFrequency(frequency) {
	case "weekly":
		return decimal.NewFromInt(52).Div(decimal.NewFromInt(12))
	case "biweekly":
		return decimal.NewFromInt(26).Div(decimal.NewFromInt(12))
	case "yearly":
		return decimal.NewFromInt(1).Div(decimal.NewFromInt(12))
	case "daily":
		return decimal.NewFromInt(30)
	default:
		return decimal.NewFromInt(1)
	}
}

func normalizeFrequency(frequency string) string {
	f := strings.ToLower(strings.TrimSpace(frequency))
	if f == "" {
		return "monthly"
	}
	return f
}

// ParsePayday extracts a numeric day of month from free-text payday values
// like "1st" or "28". It reports false when no valid 1-31 day is present;
// such income sources are excluded from salary projection.
func ParsePayday(payday string) (int, bool) {
	day := 0
	found := false
	for _, r := range payday {
		if r >= '0' && r <= '9' {
			day = day*10 + int(r-'0')
			found = true
		}
	}
	if !found || day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}
