package timeutil

import (
	"regexp"
	"time"
)

// ISODateLayout is the only accepted spelling for dates in imported files.
const ISODateLayout = "2006-01-02"

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

// IsISODate reports whether value is spelled YYYY-MM-DD. It does not check
// that the date exists.
func IsISODate(value string) bool {
	return isoDatePattern.MatchString(value)
}

// ParseISODate parses a strict YYYY-MM-DD date as a calendar day in UTC.
// Impossible dates such as 2024-02-30 are rejected.
func ParseISODate(value string) (time.Time, bool) {
	if !IsISODate(value) {
		return time.Time{}, false
	}
	parsed, err := time.Parse(ISODateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// AgeOn returns the number of completed years between birth and day.
func AgeOn(birth, day time.Time) int {
	age := day.Year() - birth.Year()
	if day.Month() < birth.Month() || (day.Month() == birth.Month() && day.Day() < birth.Day()) {
		age--
	}
	return age
}
