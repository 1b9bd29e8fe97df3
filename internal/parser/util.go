package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// parseAmount converts a string like "1,234.56" or "-$1,234.56" to a float64.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	// Remove currency symbols, separators and whitespace (including
	// Unicode variants)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "£", "")
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "") // non-breaking space

	if s == "" || s == "-" {
		return 0, nil
	}

	return strconv.ParseFloat(s, 64)
}

var multiSpacePattern = regexp.MustCompile(`\s+`)

// collapseWhitespace trims a string and folds interior whitespace runs
// into single spaces.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(s, " "))
}
