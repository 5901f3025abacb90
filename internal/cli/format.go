// Package cli provides formatting, rendering and prompting utilities for
// terminal output.
package cli

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// MaxAge bounds ages accepted from user input.
const MaxAge = 150

var (
	ErrAgeRange   = fmt.Errorf("age must be between 0 and %d", MaxAge)
	ErrBadAmount  = errors.New("amount must be a non-negative number")
	ErrNotInteger = errors.New("not a whole number")
)

// FormatMoney formats a balance with two decimals and comma separators.
// e.g., -26000 -> "-$26,000.00", 1234.567 -> "$1,234.57"
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$?"
	}
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	f, _ := d.Float64()
	return sign + "$" + humanize.FormatFloat("#,###.##", f)
}

// FormatMoneyShort formats a balance with a magnitude suffix for chart
// labels. e.g., 1234 -> "$1.2K", -2500000 -> "-$2.5M"
func FormatMoneyShort(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%s$%.1fB", sign, v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s$%.1fK", sign, v/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", sign, v)
	}
}

// FormatDelta formats a signed change with an explicit sign.
func FormatDelta(delta float64) string {
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return FormatMoney(delta)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatAgeRange renders an item's active window.
// e.g., (30, 40) -> "30-40", (22, nil) -> "22+"
func FormatAgeRange(start int, end *int) string {
	if end == nil {
		return strconv.Itoa(start) + "+"
	}
	return fmt.Sprintf("%d-%d", start, *end)
}

// ParseAge parses a whole-number age in [0, MaxAge].
func ParseAge(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrNotInteger)
	}
	if n < 0 || n > MaxAge {
		return 0, ErrAgeRange
	}
	return n, nil
}

// ParseOptionalAge parses an age, treating blank input as "none".
func ParseOptionalAge(s string) (*int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	n, err := ParseAge(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ParseAmount parses a money amount. A leading "$" and comma separators
// are accepted.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0, fmt.Errorf("%q: %w", s, ErrBadAmount)
	}
	f, _ := d.Float64()
	return f, nil
}

// ParseCapital is ParseAmount without the sign restriction; a person may
// start in debt.
func ParseCapital(s string) (float64, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	v, err := ParseAmount(strings.TrimPrefix(s, "-"))
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}
