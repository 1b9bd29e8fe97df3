package parser

import (
	"regexp"
	"strings"

	"github.com/ledgerlens/statement-extractor/internal/models"
)

// The transaction table starts at a header line carrying all three of
// these column tokens (case-sensitive, any order). Statements that render
// the header differently fall through to an empty transaction list, which
// callers treat as a normal outcome.
var sectionHeaderTokens = []string{"TRANSACTION", "DESCRIPTION", "AMOUNT"}

func isSectionHeader(line string) bool {
	for _, tok := range sectionHeaderTokens {
		if !strings.Contains(line, tok) {
			return false
		}
	}
	return true
}

// txnLinePattern matches a complete single-line transaction entry:
// transaction date, posting date, reference number, description, amount
// with currency code in parentheses, and a dollar-prefixed signed running
// balance anchored at the end of the line.
//
// Example: "05-Dec-2023 05-Dec-2023 0612206523 NETFLIX.COM (15.49 USD) $69.56"
var txnLinePattern = regexp.MustCompile(
	`^(\d{1,2}-[A-Za-z]{3}-\d{4})\s+(\d{1,2}-[A-Za-z]{3}-\d{4})\s+(\d+)\s+(.+?)\s*` +
		`\((-?[\d,]+(?:\.\d+)?)\s+([A-Z]{3})\)\s+\$(-?[\d,]+\.\d{2})\s*$`)

// txnStartPattern matches just the date/date/refno prefix of an entry
// whose description and amount wrapped onto following lines.
var txnStartPattern = regexp.MustCompile(
	`^(\d{1,2}-[A-Za-z]{3}-\d{4})\s+(\d{1,2}-[A-Za-z]{3}-\d{4})\s+(\d+)\b`)

// txnTailPattern locates the amount/currency/balance tail anywhere in the
// joined text of a multi-line candidate.
var txnTailPattern = regexp.MustCompile(
	`\((-?[\d,]+(?:\.\d+)?)\s+([A-Z]{3})\)\s+\$(-?[\d,]+\.\d{2})`)

// scanState tracks where the line scanner is in the document.
type scanState int

const (
	beforeSection scanState = iota
	inSection
)

// rawTransaction is a transaction record as it was matched in the source,
// before classification: dates and amounts keep their printed form and sign.
type rawTransaction struct {
	transDate   string
	postDate    string
	refNo       string
	description string
	amount      float64
	currency    string
	balance     float64
}

// candidate is an in-progress multi-line record: the scanner has seen its
// date/date/refno prefix but not yet the amount tail.
type candidate struct {
	transDate string
	postDate  string
	refNo     string
	fragments []string
}

// scanTransactionLines runs the line scanner over the statement text and
// returns raw records in source order plus scan statistics. At most one
// candidate is open at a time; it is closed when a new date-prefixed line
// starts or when the scan ends.
func scanTransactionLines(text string) ([]rawTransaction, models.ScanStats) {
	var (
		out     []rawTransaction
		stats   models.ScanStats
		state   = beforeSection
		current *candidate
	)

	closeCurrent := func() {
		if current == nil {
			return
		}
		if raw, ok := finishCandidate(current); ok {
			out = append(out, raw)
			stats.Matched++
		} else {
			stats.Dropped++
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		stats.LinesScanned++

		if state == beforeSection {
			if isSectionHeader(line) {
				state = inSection
			}
			continue
		}

		// Complete entry on a single line. Whatever was being
		// accumulated is abandoned, not closed.
		if m := txnLinePattern.FindStringSubmatch(line); m != nil {
			if current != nil {
				stats.Dropped++
				current = nil
			}
			amt, err := parseAmount(m[5])
			if err != nil {
				continue
			}
			bal, _ := parseAmount(m[7])
			out = append(out, rawTransaction{
				transDate:   m[1],
				postDate:    m[2],
				refNo:       m[3],
				description: strings.TrimSpace(m[4]),
				amount:      amt,
				currency:    m[6],
				balance:     bal,
			})
			stats.Matched++
			continue
		}

		// A new date-prefixed line closes the previous candidate and
		// opens a fresh one.
		if m := txnStartPattern.FindStringSubmatchIndex(line); m != nil {
			closeCurrent()
			current = &candidate{
				transDate: line[m[2]:m[3]],
				postDate:  line[m[4]:m[5]],
				refNo:     line[m[6]:m[7]],
			}
			if rest := strings.TrimSpace(line[m[1]:]); rest != "" {
				current.fragments = append(current.fragments, rest)
			}
			continue
		}

		if current != nil {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				current.fragments = append(current.fragments, trimmed)
			}
		}
	}

	closeCurrent()
	return out, stats
}

// finishCandidate resolves the amount/currency/balance tail of a
// multi-line candidate from its joined fragment text. Candidates whose
// text never produced a parsable tail are discarded: wrapped entries the
// statement printed without a terminating amount are unrecoverable.
func finishCandidate(c *candidate) (rawTransaction, bool) {
	joined := strings.Join(c.fragments, " ")
	loc := txnTailPattern.FindStringSubmatchIndex(joined)
	if loc == nil {
		return rawTransaction{}, false
	}

	amt, err := parseAmount(joined[loc[2]:loc[3]])
	if err != nil {
		return rawTransaction{}, false
	}
	bal, _ := parseAmount(joined[loc[6]:loc[7]])

	return rawTransaction{
		transDate:   c.transDate,
		postDate:    c.postDate,
		refNo:       c.refNo,
		description: strings.TrimSpace(joined[:loc[0]]),
		amount:      amt,
		currency:    joined[loc[4]:loc[5]],
		balance:     bal,
	}, true
}
