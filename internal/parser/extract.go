// Package parser recovers structured account metadata and a transaction
// ledger from the plain-text rendering of a credit-card statement.
//
// Extraction is best-effort and never fails: header fields fall back
// through ordered pattern chains to documented defaults, and transaction
// lines that cannot be reconstructed are dropped (and counted) rather than
// reported as errors. Every function here is a pure function of its
// arguments; the variants without a time parameter use the real clock.
package parser

import (
	"time"

	"github.com/ledgerlens/statement-extractor/internal/models"
)

// Result bundles everything extracted from one statement.
type Result struct {
	Account      models.AccountInfo   `json:"accountInfo"`
	Transactions []models.Transaction `json:"transactions"`
	Stats        models.ScanStats     `json:"stats"`
}

// ExtractTransactionsAt scans the statement text for transaction entries
// and returns them in source order, normalized and classified, together
// with scan statistics. The reference time is used only for date defaults.
func ExtractTransactionsAt(text string, now time.Time) ([]models.Transaction, models.ScanStats) {
	raws, stats := scanTransactionLines(text)
	txns := make([]models.Transaction, 0, len(raws))
	for _, raw := range raws {
		if txn, ok := classify(raw, now); ok {
			txns = append(txns, txn)
		}
	}
	return txns, stats
}

// ExtractTransactions is ExtractTransactionsAt with the real clock,
// without statistics.
func ExtractTransactions(text string) []models.Transaction {
	txns, _ := ExtractTransactionsAt(text, time.Now())
	return txns
}

// ExtractAt runs account-info and transaction extraction over the same
// statement text.
func ExtractAt(text string, now time.Time) *Result {
	txns, stats := ExtractTransactionsAt(text, now)
	return &Result{
		Account:      ExtractAccountInfoAt(text, now),
		Transactions: txns,
		Stats:        stats,
	}
}

// Extract is ExtractAt with the real clock.
func Extract(text string) *Result {
	return ExtractAt(text, time.Now())
}
