package flatfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ayo6706/payment-batch/internal/domain"
	"github.com/ayo6706/payment-batch/internal/models"
)

// InputFields is the column order of the input file.
var InputFields = []string{
	"id", "amount", "currency", "status", "paymentDate", "paymentType", "customerName", "customerEmail",
}

const (
	colID = iota
	colAmount
	colCurrency
	colStatus
	colPaymentDate
	colPaymentType
	colCustomerName
	colCustomerEmail
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseError reports a line that cannot be turned into a payment.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: field %s: %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Source reads payments from a delimited file, skipping its header line.
// Re-reading requires opening a new Source.
type Source struct {
	r             *csv.Reader
	closer        io.Closer
	headerSkipped bool
}

// OpenSource opens the file at path for reading.
func OpenSource(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", path, err)
	}
	s := NewSource(f)
	s.closer = f
	return s, nil
}

// NewSource reads from r. The caller keeps ownership of r.
func NewSource(r io.Reader) *Source {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return &Source{r: cr}
}

// Next returns the next payment, or io.EOF once the input is exhausted.
func (s *Source) Next() (*models.Payment, error) {
	if !s.headerSkipped {
		if _, err := s.r.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read header: %w", err)
		}
		s.headerSkipped = true
	}

	record, err := s.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read record: %w", err)
	}
	line, _ := s.r.FieldPos(0)
	return parsePayment(line, record)
}

func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func parsePayment(line int, record []string) (*models.Payment, error) {
	if len(record) != len(InputFields) {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("expected %d fields, got %d", len(InputFields), len(record))}
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	id, err := strconv.ParseInt(record[colID], 10, 64)
	if err != nil {
		return nil, &ParseError{Line: line, Field: InputFields[colID], Err: err}
	}
	amount, err := domain.ParseAmount(record[colAmount])
	if err != nil {
		return nil, &ParseError{Line: line, Field: InputFields[colAmount], Err: err}
	}

	p := &models.Payment{
		ID:            id,
		Amount:        amount,
		Currency:      record[colCurrency],
		Status:        domain.PaymentStatus(strings.ToUpper(record[colStatus])),
		PaymentDate:   parseDate(record[colPaymentDate]),
		CustomerName:  record[colCustomerName],
		CustomerEmail: record[colCustomerEmail],
	}
	if p.Status == "" {
		p.Status = domain.PaymentStatusPending
	}
	if t, ok := domain.ParsePaymentType(record[colPaymentType]); ok {
		p.PaymentType = &t
	}
	return p, nil
}

// parseDate maps blank or unparsable values to an absent date.
func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
