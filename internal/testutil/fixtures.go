// Package testutil provides input fixtures and output readers for batch tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// InputHeader is the header line of an input file.
const InputHeader = "id,amount,currency,status,paymentDate,paymentType,customerName,customerEmail"

// SamplePayments mixes valid and invalid rows. Rows 2, 4 and 6 are invalid.
func SamplePayments() []string {
	return []string{
		"1,100.00,USD,PENDING,2024-01-15T10:30:00,CREDIT_CARD,John Doe,john@example.com",
		"2,5.00,USD,PENDING,2024-01-15T11:00:00,DEBIT_CARD,Jane Roe,jane@example.com",
		"3,250.50,EUR,PENDING,2024-01-16T09:15:00,BANK_TRANSFER,Ana Lima,ana@example.com",
		"4,100.00,MXN,PENDING,2024-01-16T12:00:00,PAYPAL,Luis Vega,luis@example.com",
		"5,10000.00,GBP,PENDING,2024-01-17T08:00:00,CREDIT_CARD,Kim Park,kim@example.com",
		"6,75.00,JPY,PENDING,,CREDIT_CARD,Tom Wu,tom@example.com",
	}
}

// WriteInput writes a header followed by rows to a file in a temp directory
// and returns its path.
func WriteInput(t *testing.T, rows ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input", "payments.txt")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create input dir: %v", err)
	}
	content := InputHeader + "\n" + strings.Join(rows, "\n")
	if len(rows) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

// ReadLines returns the non-empty lines of the file at path.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
