package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ledgerlens/statement-extractor/internal/parser"
)

// CSVWriter writes extraction results to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the extraction result to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, res *parser.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, res)
}

// Write writes the extraction result in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, res *parser.Result) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	// Account metadata as comment-style header rows
	if w.IncludeHeader {
		writer.Write([]string{"# Account", "..." + res.Account.AccountNumberLast4})
		writer.Write([]string{"# Statement Period", res.Account.Period.Start + " to " + res.Account.Period.End})
		writer.Write([]string{"# Opening Balance", formatAmount(res.Account.OpeningBalance)})
		writer.Write([]string{"# Closing Balance", formatAmount(res.Account.ClosingBalance)})
	}

	header := []string{"Date", "Description", "Type", "Amount"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range res.Transactions {
		row := []string{
			txn.Date,
			txn.Description,
			txn.Type,
			formatAmount(txn.Amount),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
