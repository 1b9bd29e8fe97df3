package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func setupTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/api/health", HandleHealth)
	app.Post("/api/extract", HandleExtract)
	return app
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp()

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var result map[string]string
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %q", result["status"])
	}

	if result["engine"] != "fiber" {
		t.Errorf("expected engine=fiber, got %q", result["engine"])
	}
}

func TestExtractEndpointRequiresInput(t *testing.T) {
	app := setupTestApp()

	req := httptest.NewRequest("POST", "/api/extract", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=----test")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// Neither a file nor a text field was provided
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for missing input, got %d", resp.StatusCode)
	}
}

func postText(t *testing.T, app *fiber.App, text string) ExtractResponse {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("text", text); err != nil {
		t.Fatalf("failed to build form: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	body, _ := io.ReadAll(resp.Body)
	var result ExtractResponse
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return result
}

func TestExtractEndpointWithText(t *testing.T) {
	app := setupTestApp()

	statement := `Account Number: ****7398
PREVIOUS BALANCE $546.08
NEW BALANCE $54.07

TRANSACTION DATE    DESCRIPTION    AMOUNT
05-Dec-2023 06-Dec-2023 2023120500123 CRUNCHYROLL *MEMBERSHI (7.99 USD) $538.09
06-Dec-2023 06-Dec-2023 2023120600456 CARD PAYMENT - THANK YOU (-500.00 USD) $38.09
`

	result := postText(t, app, statement)

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.RequestID == "" {
		t.Error("expected a request id")
	}
	if result.Count != 2 {
		t.Fatalf("expected 2 transactions, got %d", result.Count)
	}
	if result.Transactions[0].Type != "DEBIT" || result.Transactions[1].Type != "CREDIT" {
		t.Errorf("unexpected transaction types: %s, %s",
			result.Transactions[0].Type, result.Transactions[1].Type)
	}
	if result.TotalDebit != 7.99 {
		t.Errorf("expected totalDebit 7.99, got %f", result.TotalDebit)
	}
	if result.TotalCredit != 500.00 {
		t.Errorf("expected totalCredit 500.00, got %f", result.TotalCredit)
	}
	if result.AccountInfo.AccountNumberLast4 != "7398" {
		t.Errorf("expected last4 7398, got %q", result.AccountInfo.AccountNumberLast4)
	}
	if result.CSV == "" {
		t.Error("expected a CSV payload")
	}
}

func TestExtractEndpointUnrecognizedTextIs200(t *testing.T) {
	app := setupTestApp()

	result := postText(t, app, "this is not a bank statement at all")

	if !result.Success {
		t.Fatalf("expected success on unrecognized text, got error %q", result.Error)
	}
	if result.Count != 0 {
		t.Errorf("expected 0 transactions, got %d", result.Count)
	}
	if result.Transactions == nil {
		t.Error("transactions must never be null")
	}
	if result.AccountInfo.AccountNumberLast4 != "0000" {
		t.Errorf("expected default last4 0000, got %q", result.AccountInfo.AccountNumberLast4)
	}
}
