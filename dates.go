package expenses_bot

import (
	"strconv"
	"strings"
	"time"
)

// human date layouts accepted in free-text input, tried in order
var dateLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.06",
	"2.1.06",
}

// layouts without a year take the year from now
var dayMonthLayouts = []string{
	"02.01",
	"2.1",
}

// ParseHumanDate accepts a day-first date in a flexible format and
// normalizes it to the fixed storage format.
func ParseHumanDate(s string, now time.Time) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateFormat), true
		}
	}
	for _, layout := range dayMonthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return t.Format(DateFormat), true
		}
	}
	return "", false
}

// MonthOf derives the year-month key from a stored date string.
func MonthOf(date string) (string, error) {
	t, err := time.Parse(DateFormat, date)
	if err != nil {
		return "", err
	}
	return t.Format(MonthFormat), nil
}

// ParseAmount parses a non-negative decimal, accepting either comma
// or dot as the separator.
func ParseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// LastMonths returns the n most recent month keys, current first.
func LastMonths(now time.Time, n int) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := make([]string, 0, n)
	for i := 0; i < n; i++ {
		months = append(months, first.AddDate(0, -i, 0).Format(MonthFormat))
	}
	return months
}
