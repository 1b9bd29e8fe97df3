package parser

import (
	"math"
	"strings"
	"time"

	"github.com/ledgerlens/statement-extractor/internal/models"
)

// creditKeywords mark descriptions of money returned to the account.
// Matching is case-sensitive against the statement's uppercase rendering.
var creditKeywords = []string{"REFUND", "CASHBACK", "CASH BACK", "REWARD"}

func containsCreditKeyword(desc string) bool {
	for _, kw := range creditKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// classify converts one raw scanner record into a normalized transaction.
// The printed sign plus known credit keywords are the only direction
// signal the statement offers. Records whose amount resolves to zero are
// discarded.
func classify(raw rawTransaction, now time.Time) (models.Transaction, bool) {
	txn := models.Transaction{
		Date:        normalizeTransDate(raw.transDate, now),
		Description: collapseWhitespace(raw.description),
		Amount:      math.Abs(raw.amount),
	}

	switch {
	case raw.amount < 0 && strings.Contains(raw.description, "CARD PAYMENT"):
		// Card payments must stay credits even if the sign rule below
		// ever changes.
		txn.Type = models.TypeCredit
	case raw.amount < 0:
		txn.Type = models.TypeCredit
	case containsCreditKeyword(raw.description):
		txn.Type = models.TypeCredit
	default:
		txn.Type = models.TypeDebit
	}

	if txn.Amount <= 0 {
		return models.Transaction{}, false
	}
	return txn, true
}
