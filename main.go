package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/ledgerlens/statement-extractor/internal/api"
	"github.com/ledgerlens/statement-extractor/internal/extractor"
	"github.com/ledgerlens/statement-extractor/internal/parser"
	"github.com/ledgerlens/statement-extractor/internal/writer"
)

func main() {
	// CLI flags
	outputFlag := flag.String("output", "", "Output file path (defaults to input filename with .csv or .json extension)")
	headerFlag := flag.Bool("header", true, "Include account metadata header rows in CSV")
	jsonFlag := flag.Bool("json", false, "Write JSON instead of CSV")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API server instead of converting files")
	addrFlag := flag.String("addr", "", "Server listen address (overrides PORT from the environment)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Statement Extractor

Converts credit card statement PDFs or text dumps into structured
CSV or JSON ledgers.

Usage:
  statement-extractor [flags] <input.pdf|input.txt> [input2 ...]
  statement-extractor -serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert a statement PDF to CSV next to the input
  statement-extractor statement.pdf

  # Convert pre-extracted statement text
  statement-extractor statement.txt

  # Custom output path, JSON format
  statement-extractor -json -output=ledger.json statement.pdf

  # Convert multiple files
  statement-extractor jan.pdf feb.pdf mar.pdf

  # Run the HTTP API
  statement-extractor -serve -addr=:8080
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-extractor v%s\n", api.Version)
		os.Exit(0)
	}

	if *serveFlag {
		serve(*addrFlag)
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(inputPath, *outputFlag, *headerFlag, *jsonFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func processFile(inputPath, outputPath string, includeHeader, asJSON bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	text, err := statementText(inputPath)
	if err != nil {
		return err
	}

	result := parser.Extract(text)

	fmt.Printf("  Scanned %d line(s), found %d transaction(s)\n",
		result.Stats.LinesScanned, len(result.Transactions))

	if result.Stats.Dropped > 0 {
		fmt.Printf("  Note: %d candidate entr%s could not be parsed and were skipped\n",
			result.Stats.Dropped, plural(result.Stats.Dropped, "y", "ies"))
	}

	if len(result.Transactions) == 0 {
		fmt.Println("  Warning: No transactions found. The statement format may not match expected patterns.")
	}

	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		if asJSON {
			outPath = base + ".json"
		} else {
			outPath = base + ".csv"
		}
	}

	if asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("JSON encoding failed: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("JSON write failed: %w", err)
		}
	} else {
		w := &writer.CSVWriter{IncludeHeader: includeHeader}
		if err := w.WriteToFile(outPath, result); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
	}

	fmt.Printf("  Output: %s\n", outPath)
	fmt.Printf("  Account: ...%s\n", result.Account.AccountNumberLast4)
	fmt.Printf("  Period: %s to %s\n", result.Account.Period.Start, result.Account.Period.End)
	fmt.Println("  Done.")
	return nil
}

// statementText loads the statement text for an input path. PDF inputs go
// through the extractor; .txt inputs are consumed directly.
func statementText(inputPath string) (string, error) {
	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".pdf":
		pages, err := extractor.ExtractText(inputPath)
		if err != nil {
			return "", fmt.Errorf("PDF extraction failed: %w", err)
		}
		fmt.Printf("  Extracted text from %d page(s)\n", len(pages))
		return strings.Join(pages, "\n"), nil
	case ".txt":
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return "", fmt.Errorf("failed to read text input: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("expected a .pdf or .txt file, got %q", filepath.Ext(inputPath))
	}
}

func serve(addr string) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("failed to load .env", "err", err)
	}

	if addr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		addr = ":" + port
	}

	app := api.NewApp(os.Getenv("STATIC_DIR"))

	log.Info("starting server", "addr", addr, "version", api.Version)
	if err := app.Listen(addr); err != nil {
		log.Fatal("server stopped", "err", err)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
