package parser

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/ledgerlens/statement-extractor/internal/models"
)

// defaultLast4 is reported when no account-number pattern matches.
const defaultLast4 = "0000"

// accountNumberPatterns are tried in order; the first pattern whose 4-digit
// capture group matches wins. Masked-PAN formats come first, generic label
// formats last, so new statement layouts can be appended without touching
// existing entries.
var accountNumberPatterns = []*regexp.Regexp{
	// Masked PAN: "****7398", "XXXX-XXXX-XXXX-7398"
	regexp.MustCompile(`\*{2,}[\s-]?(\d{4})\b`),
	regexp.MustCompile(`(?i)\b(?:x{2,}[\s-]?)+(\d{4})\b`),
	// Labelled forms: "Account #: ...1234", "A/C: ...1234", "Card: ...1234"
	regexp.MustCompile(`(?i)account\s*(?:number|no\.?|#)?\s*[:#]?[\sXx*.-]*(\d{4})\b`),
	regexp.MustCompile(`(?i)\ba/c\s*(?:no\.?)?\s*[:#]?[\sXx*.-]*(\d{4})\b`),
	regexp.MustCompile(`(?i)\bcard\s*(?:number|no\.?)?\s*[:#]?[\sXx*.-]*(\d{4})\b`),
}

// periodSplitPattern handles card statements that print the statement
// period across two lines with the year attached only to the end date,
// e.g. "Statement Period: Nov 5 -\nDec 4, 2023".
var periodSplitPattern = regexp.MustCompile(
	`(?is)statement\s+period[:\s]*([A-Za-z]{3,9}\.?\s+\d{1,2})\s*(?:-|–|to)\s*\n?\s*([A-Za-z]{3,9}\.?\s+\d{1,2},?\s+\d{4})`)

// periodPatterns capture a "start - end" range on a single line, most
// specific label first.
var periodPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)statement\s+period[:\s]*(.+?)\s+(?:to|through|[-–])\s+(.+)`),
	regexp.MustCompile(`(?i)\bperiod[:\s]*(.+?)\s+(?:to|through|[-–])\s+(.+)`),
	regexp.MustCompile(`(?i)\bfrom\s+(.+?)\s+to\s+(.+)`),
	regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})\s*(?:to|[-–])\s*(\d{1,2}/\d{1,2}/\d{4})`),
}

// statementDatePatterns locate a single statement date when no period
// range is printed; the period is then synthesized as the month ending on
// that date.
var statementDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)statement\s+date[:\s]+(.+)`),
	regexp.MustCompile(`(?i)\bdate[:\s]+(.+)`),
	regexp.MustCompile(`(?i)\bas\s+of[:\s]+(.+)`),
	regexp.MustCompile(`(?i)\bmonth\s+of[:\s]+(.+)`),
}

// Balance label chains. The uppercase entries match the known card-format
// labels exactly and must stay first; the generic entries are
// case-insensitive fallbacks.
var openingBalancePatterns = []*regexp.Regexp{
	regexp.MustCompile(`PREVIOUS BALANCE[:\s]*\$?\s*(-?[\d,]+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(?:opening|previous|beginning|prior)\s+balance[:\s]*\$?\s*(-?[\d,]+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)balance\s+forward[:\s]*\$?\s*(-?[\d,]+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)previous\s+statement\s+balance[:\s]*\$?\s*(-?[\d,]+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)balance\s+brought\s+forward[:\s]*\$?\s*(-?[\d,]+(?:\.\d+)?)`),
}

var closingBalancePatterns = []*regexp.Regexp{
	regexp.MustCompile(`NEW BALANCE[:\s]*\$?\s*(-?[\d,]+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(?:closing|current|ending|new)\s+balance[:\s]*\$?\s*(-?[\d,]+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)balance\s+due[:\s]*\$?\s*(-?[\d,]+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)total\s+balance[:\s]*\$?\s*(-?[\d,]+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)statement\s+balance[:\s]*\$?\s*(-?[\d,]+(?:\.\d+)?)`),
}

// ExtractAccountInfoAt recovers account metadata from statement text using
// the given reference time for date defaults. It is a pure function of its
// arguments and always returns a usable result; fields whose patterns do
// not match fall back to documented defaults.
func ExtractAccountInfoAt(text string, now time.Time) models.AccountInfo {
	info := models.AccountInfo{AccountNumberLast4: defaultLast4}

	for _, pat := range accountNumberPatterns {
		if m := pat.FindStringSubmatch(text); m != nil {
			info.AccountNumberLast4 = m[1]
			break
		}
	}

	info.Period = extractPeriod(text, now)
	info.OpeningBalance = firstBalance(text, openingBalancePatterns)
	info.ClosingBalance = firstBalance(text, closingBalancePatterns)
	return info
}

// ExtractAccountInfo is ExtractAccountInfoAt with the real clock.
func ExtractAccountInfo(text string) models.AccountInfo {
	return ExtractAccountInfoAt(text, time.Now())
}

func extractPeriod(text string, now time.Time) models.Period {
	// Split-across-lines format first: it is the only pattern allowed to
	// span a line break.
	if m := periodSplitPattern.FindStringSubmatch(text); m != nil {
		if p, ok := periodFromFragments(m[1], m[2], now); ok {
			return p
		}
	}

	lines := strings.Split(text, "\n")

	for _, pat := range periodPatterns {
		for _, line := range lines {
			m := pat.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if p, ok := periodFromFragments(m[1], m[2], now); ok {
				return p
			}
		}
	}

	// No range found — look for a single statement date and synthesize
	// the month ending on it.
	for _, pat := range statementDatePatterns {
		for _, line := range lines {
			m := pat.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if end, ok := parseDateFragment(m[1], now); ok {
				return models.Period{
					Start: isoDate(end.AddDate(0, -1, 0)),
					End:   isoDate(end),
				}
			}
		}
	}

	return models.Period{
		Start: isoDate(now.AddDate(0, -1, 0)),
		End:   isoDate(now),
	}
}

func periodFromFragments(startFrag, endFrag string, now time.Time) (models.Period, bool) {
	start, ok := parseDateFragment(startFrag, now)
	if !ok {
		return models.Period{}, false
	}
	end, ok := parseDateFragment(endFrag, now)
	if !ok {
		return models.Period{}, false
	}
	return models.Period{Start: isoDate(start), End: isoDate(end)}, true
}

// firstBalance returns the amount captured by the first pattern in the
// chain that matches with a parsable value, or 0.
func firstBalance(text string, patterns []*regexp.Regexp) float64 {
	for _, pat := range patterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if bal, err := parseAmount(m[1]); err == nil {
			return math.Abs(bal)
		}
	}
	return 0
}
