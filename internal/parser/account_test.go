package parser

import (
	"testing"
	"time"
)

func TestExtractAccountInfo_AccountNumber(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"masked PAN", "Card ending ****7398", "7398"},
		{"masked PAN with space", "Account **** 7398", "7398"},
		{"x-masked", "Card Number: XXXX-XXXX-XXXX-5678", "5678"},
		{"account label", "Account #: ...1234", "1234"},
		{"account number label", "Account Number: 1234", "1234"},
		{"a/c label", "A/C: XXXX5678", "5678"},
		{"card label", "Card: ...9876", "9876"},
		{"no match defaults", "nothing to see here", "0000"},
		{"empty text", "", "0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ExtractAccountInfoAt(tt.text, testNow)
			if info.AccountNumberLast4 != tt.expected {
				t.Errorf("last4: got %q, want %q", info.AccountNumberLast4, tt.expected)
			}
		})
	}
}

func TestExtractAccountInfo_PeriodSplitAcrossLines(t *testing.T) {
	now := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)
	text := "Statement Period: Nov 5 -\nDec 4, 2023\n"

	info := ExtractAccountInfoAt(text, now)
	if info.Period.Start != "2023-11-05" {
		t.Errorf("period start: got %q, want %q", info.Period.Start, "2023-11-05")
	}
	if info.Period.End != "2023-12-04" {
		t.Errorf("period end: got %q, want %q", info.Period.End, "2023-12-04")
	}
}

func TestExtractAccountInfo_PeriodPatterns(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start string
		end   string
	}{
		{
			"statement period with slash dates",
			"Statement Period: 11/05/2023 - 12/04/2023",
			"2023-11-05", "2023-12-04",
		},
		{
			"bare period label",
			"Period: December 5, 2023 to January 4, 2024",
			"2023-12-05", "2024-01-04",
		},
		{
			"from to",
			"From December 5, 2023 To January 4, 2024",
			"2023-12-05", "2024-01-04",
		},
		{
			"numeric range without label",
			"Activity 11/05/2023-12/04/2023 summary",
			"2023-11-05", "2023-12-04",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ExtractAccountInfoAt(tt.text, testNow)
			if info.Period.Start != tt.start {
				t.Errorf("period start: got %q, want %q", info.Period.Start, tt.start)
			}
			if info.Period.End != tt.end {
				t.Errorf("period end: got %q, want %q", info.Period.End, tt.end)
			}
		})
	}
}

func TestExtractAccountInfo_SingleDateSynthesizesPeriod(t *testing.T) {
	text := "Statement Date: December 5, 2023"

	info := ExtractAccountInfoAt(text, testNow)
	if info.Period.Start != "2023-11-05" {
		t.Errorf("period start: got %q, want %q", info.Period.Start, "2023-11-05")
	}
	if info.Period.End != "2023-12-05" {
		t.Errorf("period end: got %q, want %q", info.Period.End, "2023-12-05")
	}
}

func TestExtractAccountInfo_PeriodDefaultsToPriorMonth(t *testing.T) {
	info := ExtractAccountInfoAt("no dates anywhere", testNow)
	if info.Period.Start != "2024-02-15" {
		t.Errorf("period start: got %q, want %q", info.Period.Start, "2024-02-15")
	}
	if info.Period.End != "2024-03-15" {
		t.Errorf("period end: got %q, want %q", info.Period.End, "2024-03-15")
	}
}

func TestExtractAccountInfo_Balances(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		opening float64
		closing float64
	}{
		{
			"card format labels",
			"PREVIOUS BALANCE $1,234.56\nNEW BALANCE $543.21",
			1234.56, 543.21,
		},
		{
			"generic labels",
			"Opening Balance: 100.00\nClosing Balance: 250.00",
			100.00, 250.00,
		},
		{
			"balance forward and balance due",
			"Balance Forward 75.50\nBalance Due: $99.99",
			75.50, 99.99,
		},
		{
			"no balances",
			"nothing here",
			0, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ExtractAccountInfoAt(tt.text, testNow)
			if info.OpeningBalance != tt.opening {
				t.Errorf("opening: got %f, want %f", info.OpeningBalance, tt.opening)
			}
			if info.ClosingBalance != tt.closing {
				t.Errorf("closing: got %f, want %f", info.ClosingBalance, tt.closing)
			}
		})
	}
}

func TestExtractAccountInfo_BalancePatternPriority(t *testing.T) {
	// The exact-label card pattern must win over the generic one even when
	// both are present.
	text := "Previous Balance: $200.00\nPREVIOUS BALANCE $100.00"

	info := ExtractAccountInfoAt(text, testNow)
	if info.OpeningBalance != 100.00 {
		t.Errorf("opening: got %f, want %f", info.OpeningBalance, 100.00)
	}
}
