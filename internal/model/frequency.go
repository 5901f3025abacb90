package model

import (
	"fmt"
	"strings"
)

// Frequency is the billing cadence of a recurring item.
type Frequency int

const (
	Yearly Frequency = iota
	Monthly
	Daily
)

// Frequencies lists every supported cadence in display order.
var Frequencies = []Frequency{Yearly, Monthly, Daily}

// Multiplier returns the number of periods per year. The values are fixed
// constants, not calendar-accurate.
func (f Frequency) Multiplier() float64 {
	switch f {
	case Monthly:
		return 12
	case Daily:
		return 365
	default:
		return 1
	}
}

// Valid reports whether f is one of the known cadences.
func (f Frequency) Valid() bool {
	return f >= Yearly && f <= Daily
}

func (f Frequency) String() string {
	switch f {
	case Yearly:
		return "yearly"
	case Monthly:
		return "monthly"
	case Daily:
		return "daily"
	default:
		return fmt.Sprintf("frequency(%d)", int(f))
	}
}

// ParseFrequency parses "yearly", "monthly" or "daily" (case-insensitive).
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yearly", "year", "annual", "y":
		return Yearly, nil
	case "monthly", "month", "m":
		return Monthly, nil
	case "daily", "day", "d":
		return Daily, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
}

// MarshalText implements encoding.TextMarshaler so frequencies read as words
// in TOML, YAML and JSON.
func (f Frequency) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFrequency, int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Frequency) UnmarshalText(text []byte) error {
	parsed, err := ParseFrequency(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
