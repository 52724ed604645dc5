package normalizer

import (
	"regexp"
	"strconv"
	"time"
)

// dayFirstRe matches the DD/MM/YYYY family: day-first dates with '/', '.'
// or '-' separators and a 2- or 4-digit year.
var dayFirstRe = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{4}|\d{2})$`)

var isoPrefixRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// fallbackLayouts are tried last, for sources that use none of the bank
// conventions above.
var fallbackLayouts = []string{
	"2006-01-02 15:04:05",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
}

// ParseStatementDate interprets a statement date string. Day-first formats
// are tried before ISO because French bank exports are day-first; two-digit
// years are assumed to be 20xx.
func ParseStatementDate(s string) (time.Time, bool) {
	if m := dayFirstRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		return calendarDate(year, month, day)
	}

	if m := isoPrefixRe.FindString(s); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return t, true
		}
		return time.Time{}, false
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

// calendarDate builds a UTC date, rejecting out-of-range components that
// time.Date would silently normalize (e.g. 32/01 becoming 01/02).
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}
