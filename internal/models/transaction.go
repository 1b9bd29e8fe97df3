package models

// Transaction represents a single normalized statement transaction.
type Transaction struct {
	Date        string  `json:"date"` // ISO YYYY-MM-DD
	Description string  `json:"description"`
	Type        string  `json:"type"` // DEBIT or CREDIT
	Amount      float64 `json:"amount"`
}

// Transaction direction values.
const (
	TypeDebit  = "DEBIT"
	TypeCredit = "CREDIT"
)

// Period is a statement period with ISO YYYY-MM-DD bounds.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AccountInfo holds metadata extracted from the statement header/footer.
// Every field is best-effort: extraction that finds no matching pattern
// falls back to a documented default instead of failing.
type AccountInfo struct {
	AccountNumberLast4 string  `json:"accountNumberLast4"` // "0000" when unmatched
	Period             Period  `json:"statementPeriod"`
	OpeningBalance     float64 `json:"openingBalance"`
	ClosingBalance     float64 `json:"closingBalance"`
}

// ScanStats captures what the transaction line scanner did with the input.
// Dropped counts multi-line candidates whose accumulated text never yielded
// a parsable amount; they are omitted from the output without error.
type ScanStats struct {
	LinesScanned int `json:"linesScanned"`
	Matched      int `json:"matched"`
	Dropped      int `json:"dropped"`
}
