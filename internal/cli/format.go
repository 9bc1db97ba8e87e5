// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Currency is the symbol prefixed to money values.
var Currency = "₹"

// FormatMoney formats an amount with the configured currency symbol.
// Amounts of 1000 or more are rounded and grouped: 12345.6 -> "₹12,346".
func FormatMoney(amount float64) string {
	if amount < 0 {
		return "-" + FormatMoney(-amount)
	}
	if amount >= 1000 {
		return Currency + FormatNumber(int64(math.Round(amount)))
	}
	return Currency + strconv.FormatFloat(amount, 'f', 2, 64)
}

// FormatRate formats a cost per km with two decimals: "₹7.42/km".
func FormatRate(perKm float64) string {
	return Currency + strconv.FormatFloat(perKm, 'f', 2, 64) + "/km"
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatKm formats a distance rounded to whole kilometers: "1,234 km".
func FormatKm(km float64) string {
	return FormatNumber(int64(math.Round(km))) + " km"
}

// FormatOdometer formats an odometer reading without a unit suffix:
// 15230.5 -> "15,230.5", 15230 -> "15,230".
func FormatOdometer(km float64) string {
	s := strconv.FormatFloat(km, 'f', 1, 64)
	whole, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return s
	}
	if frac == "0" {
		return FormatNumber(n)
	}
	return FormatNumber(n) + "." + frac
}

// FormatLiters formats a volume with one decimal: "12.5 L".
func FormatLiters(l float64) string {
	return strconv.FormatFloat(l, 'f', 1, 64) + " L"
}

// FormatEfficiency formats fuel economy: "18.4 km/L".
func FormatEfficiency(kmpl float64) string {
	return strconv.FormatFloat(kmpl, 'f', 1, 64) + " km/L"
}

// FormatPercent formats a 0-100 share.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDate formats a calendar date, or "-" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// FormatMonth formats a month heading: "Mar 2025".
func FormatMonth(t time.Time) string {
	return t.Format("Jan 2006")
}

// FormatBool renders a yes/no cell.
func FormatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
