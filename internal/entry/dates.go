package entry

import (
	"regexp"
	"time"
)

const (
	// YMDLayout is the calendar day key format.
	YMDLayout = "2006-01-02"

	// ISOLayout is the canonical timestamp format: UTC, millisecond precision.
	ISOLayout = "2006-01-02T15:04:05.000Z"
)

var ymdPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidYMD reports whether s is a YYYY-MM-DD key naming a real calendar day.
// "2024-02-29" is valid, "2024-02-30" is not.
func IsValidYMD(s string) bool {
	if !ymdPattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(YMDLayout, s)
	return err == nil
}

// IsValidISODate reports whether s is a canonical ISO-8601 UTC timestamp.
// The string must parse and re-serialize to exactly itself, so variants such
// as "2025-01-15T08:00:00Z" or "+00:00" offsets are rejected.
func IsValidISODate(s string) bool {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return false
	}
	return FormatISO(t) == s
}

// FormatISO renders t in the canonical timestamp format.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseISO parses a canonical timestamp.
func ParseISO(s string) (time.Time, error) {
	return time.Parse(ISOLayout, s)
}

// MonthKey returns the YYYY-MM prefix of a day key.
func MonthKey(ymd string) string {
	if len(ymd) < 7 {
		return ymd
	}
	return ymd[:7]
}
