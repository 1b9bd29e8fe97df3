package api

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ledgerlens/statement-extractor/internal/extractor"
	"github.com/ledgerlens/statement-extractor/internal/models"
	"github.com/ledgerlens/statement-extractor/internal/parser"
	"github.com/ledgerlens/statement-extractor/internal/writer"
)

// Version is reported by the health and extract endpoints.
const Version = "1.0.0"

// ExtractResponse is the JSON response from the /api/extract endpoint.
type ExtractResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	RequestID    string               `json:"requestId"`
	AccountInfo  models.AccountInfo   `json:"accountInfo"`
	Transactions []models.Transaction `json:"transactions"`
	CSV          string               `json:"csv,omitempty"`
	TotalDebit   float64              `json:"totalDebit"`
	TotalCredit  float64              `json:"totalCredit"`
	Count        int                  `json:"count"`
	Dropped      int                  `json:"dropped"`
	Version      string               `json:"version,omitempty"`
}

// NewApp builds the fiber application with all routes registered.
// staticDir, when non-empty, is served at the root for the web UI.
func NewApp(staticDir string) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             32 << 20,
		DisableStartupMessage: true,
	})

	app.Use(func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Set("Access-Control-Allow-Headers", "Content-Type")
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusOK)
		}
		return c.Next()
	})

	app.Get("/api/health", HandleHealth)
	app.Post("/api/extract", HandleExtract)

	if staticDir != "" {
		app.Static("/", staticDir)
	}

	return app
}

// HandleHealth reports service liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": Version,
	})
}

// HandleExtract accepts a multipart PDF upload (form field "file") or
// pre-extracted statement text (form field "text") and responds with the
// extracted account info, transactions, totals and a generated CSV.
//
// Malformed or unrecognized statements are not errors: the response is a
// 200 with zero transactions and default account info.
func HandleExtract(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	logger := log.With("requestId", requestID)

	text, err := statementText(c)
	if err != nil {
		logger.Warn("extract request rejected", "err", err)
		return writeError(c, fiber.StatusBadRequest, requestID, err.Error())
	}

	includeHeader := c.FormValue("header") != "false"

	result := parser.Extract(text)

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := csvWriter.Write(&csvBuf, result); err != nil {
		logger.Error("csv generation failed", "err", err)
		return writeError(c, fiber.StatusInternalServerError, requestID, "CSV generation failed.")
	}

	var totalDebit, totalCredit float64
	for _, txn := range result.Transactions {
		if txn.Type == models.TypeDebit {
			totalDebit += txn.Amount
		} else {
			totalCredit += txn.Amount
		}
	}

	// nil marshals to JSON null, not []
	txns := result.Transactions
	if txns == nil {
		txns = []models.Transaction{}
	}

	logger.Info("statement extracted",
		"transactions", len(txns),
		"dropped", result.Stats.Dropped,
		"lines", result.Stats.LinesScanned)

	return c.JSON(ExtractResponse{
		Success:      true,
		RequestID:    requestID,
		AccountInfo:  result.Account,
		Transactions: txns,
		CSV:          csvBuf.String(),
		TotalDebit:   totalDebit,
		TotalCredit:  totalCredit,
		Count:        len(txns),
		Dropped:      result.Stats.Dropped,
		Version:      Version,
	})
}

// statementText resolves the statement text for a request, preferring the
// pre-extracted "text" form field over server-side PDF extraction.
func statementText(c *fiber.Ctx) (string, error) {
	if text := strings.TrimSpace(c.FormValue("text")); text != "" {
		return text, nil
	}

	header, err := c.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("no statement provided: use form field 'file' (PDF) or 'text'")
	}

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		return "", fmt.Errorf("only PDF files are supported")
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	tmpFile, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, file); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	tmpFile.Close()

	pages, err := extractor.ExtractText(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("PDF extraction failed: %w", err)
	}

	return strings.Join(pages, "\n"), nil
}

func writeError(c *fiber.Ctx, status int, requestID, msg string) error {
	return c.Status(status).JSON(ExtractResponse{
		Success:      false,
		Error:        msg,
		RequestID:    requestID,
		Transactions: []models.Transaction{},
	})
}
