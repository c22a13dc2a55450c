// Package dates parses the free-text date ranges returned by hackathon
// listing APIs into calendar dates.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const layout = "Jan 2, 2006"

var monthNames = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// ParseRange parses a Devpost-style date range into (start, end).
//
// Handled forms:
//
//	"Jul 10, 2025"                 single day
//	"Jul 10 - 20, 2025"            same month
//	"May 26 - Jul 10, 2025"        cross month
//	"Nov 25, 2025 - Jan 12, 2026"  cross year
//
// A start half without a year inherits it from the end half; an end half
// without a month inherits it from the start half.
func ParseRange(text string) (time.Time, time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("empty date range")
	}

	startStr, endStr, isRange := strings.Cut(text, " - ")
	if !isRange {
		d, err := parseDate(text)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return d, d, nil
	}

	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	if !strings.Contains(startStr, ",") {
		if _, year, ok := strings.Cut(endStr, ","); ok {
			startStr = fmt.Sprintf("%s, %s", startStr, strings.TrimSpace(year))
		}
	}

	if !hasMonth(endStr) {
		month, _, ok := strings.Cut(startStr, " ")
		if !ok {
			return time.Time{}, time.Time{}, fmt.Errorf("malformed range start %q", startStr)
		}
		endStr = fmt.Sprintf("%s %s", month, endStr)
	}

	start, err := parseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

const monthPattern = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`

var rangePattern = regexp.MustCompile(
	monthPattern + ` \d{1,2}(?:, \d{4})?(?: - (?:` + monthPattern + ` )?\d{1,2}(?:, \d{4})?)?`)

// FindRange locates the first Devpost-style date range inside free text and
// parses it. It is used for sources that bury the event dates in a title or
// description rather than a dedicated field.
func FindRange(text string) (time.Time, time.Time, error) {
	match := rangePattern.FindString(text)
	if match == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("no date range in %q", text)
	}
	return ParseRange(match)
}

// ParseISO parses an RFC 3339 timestamp and truncates it to a calendar date.
func ParseISO(text string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", text, err)
	}
	return Day(t), nil
}

// Day truncates a timestamp to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func hasMonth(s string) bool {
	for _, m := range monthNames {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
