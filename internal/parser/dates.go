package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// monthsByName maps lowercase 3-letter month abbreviations to calendar months.
var monthsByName = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Layouts tried when parsing free-form date fragments from header text.
var fragmentLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
}

var (
	monthNamePattern = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*`)
	dayTokenPattern  = regexp.MustCompile(`\b(\d{1,2})\b`)
	yearTokenPattern = regexp.MustCompile(`\b(\d{4})\b`)
)

// parseDateFragment parses a date fragment captured from header text.
// Native calendar layouts are tried first; failing that, the fragment is
// scanned for a month-name token plus optional day and year tokens, with
// the day defaulting to 1 and the year to the current year.
func parseDateFragment(frag string, now time.Time) (time.Time, bool) {
	frag = strings.TrimSpace(frag)
	if frag == "" {
		return time.Time{}, false
	}

	for _, layout := range fragmentLayouts {
		if t, err := time.Parse(layout, frag); err == nil {
			return t, true
		}
	}

	m := monthNamePattern.FindStringSubmatch(frag)
	if m == nil {
		return time.Time{}, false
	}
	month := monthsByName[strings.ToLower(m[1])]

	day := 1
	year := now.Year()
	if dm := dayTokenPattern.FindStringSubmatch(frag); dm != nil {
		day, _ = strconv.Atoi(dm[1])
	}
	if ym := yearTokenPattern.FindStringSubmatch(frag); ym != nil {
		year, _ = strconv.Atoi(ym[1])
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

// isoDate formats a time as an ISO YYYY-MM-DD string.
func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// normalizeTransDate converts a transaction date as printed on the
// statement (DD-Mon-YYYY) to ISO form. Unrecognized month tokens fall back
// to a numeric MM/DD/YYYY or MM-DD-YYYY reading; anything else defaults to
// the current date.
func normalizeTransDate(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)

	parts := strings.Split(raw, "-")
	if len(parts) == 3 {
		if month, ok := monthsByName[monthToken(parts[1])]; ok {
			day, dayErr := strconv.Atoi(strings.TrimSpace(parts[0]))
			year, yearErr := strconv.Atoi(strings.TrimSpace(parts[2]))
			if dayErr == nil && yearErr == nil {
				return isoDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
			}
		}
	}

	if t, ok := parseNumericDate(raw); ok {
		return isoDate(t)
	}
	return isoDate(now)
}

func monthToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) > 3 {
		s = s[:3]
	}
	return s
}

// parseNumericDate handles MM/DD/YYYY and MM-DD-YYYY with 2- or 4-digit
// years. Two-digit years pivot at 50: below 50 is 2000s, 50 and above is
// 1900s.
func parseNumericDate(raw string) (time.Time, bool) {
	sep := "/"
	if !strings.Contains(raw, sep) {
		sep = "-"
	}
	parts := strings.Split(raw, sep)
	if len(parts) != 3 {
		return time.Time{}, false
	}

	month, monthErr := strconv.Atoi(strings.TrimSpace(parts[0]))
	day, dayErr := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, yearErr := strconv.Atoi(strings.TrimSpace(parts[2]))
	if monthErr != nil || dayErr != nil || yearErr != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	if year < 100 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
