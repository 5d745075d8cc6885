package domain

import "strings"

// Day names one bucket of the week.
type Day string

// DefaultWeek returns the seven buckets in display order.
func DefaultWeek() []Day {
	return []Day{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
}

// WeekLength is the fixed number of buckets.
const WeekLength = 7

// NormalizeDay trims surrounding whitespace from a bucket name.
func NormalizeDay(day Day) Day {
	return Day(strings.TrimSpace(string(day)))
}

// ValidateWeek requires exactly seven unique, non-blank bucket names.
func ValidateWeek(days []Day) error {
	if len(days) != WeekLength {
		return ErrInvalidWeek
	}
	seen := make(map[Day]struct{}, len(days))
	for _, raw := range days {
		day := NormalizeDay(raw)
		if day == "" {
			return ErrInvalidDay
		}
		if _, ok := seen[day]; ok {
			return ErrInvalidWeek
		}
		seen[day] = struct{}{}
	}
	return nil
}

// NormalizeWeek trims every bucket name, preserving order.
func NormalizeWeek(days []Day) []Day {
	out := make([]Day, 0, len(days))
	for _, day := range days {
		out = append(out, NormalizeDay(day))
	}
	return out
}

// ContainsDay reports whether day is one of the configured buckets.
func ContainsDay(days []Day, day Day) bool {
	day = NormalizeDay(day)
	for _, candidate := range days {
		if candidate == day {
			return true
		}
	}
	return false
}
