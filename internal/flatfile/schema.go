package flatfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ayo6706/payment-batch/internal/domain"
	"github.com/ayo6706/payment-batch/internal/models"
)

// DateTimeLayout is how payment dates are written to every sink.
const DateTimeLayout = "2006-01-02T15:04:05"

// Field extracts one column of an output line.
type Field struct {
	Name  string
	Value func(p *models.Payment) string
}

// Schema is the ordered column layout of one sink.
type Schema struct {
	Name      string
	Delimiter rune
	Fields    []Field
}

// Validate checks that the schema can be serialized unambiguously.
func (s Schema) Validate() error {
	if s.Name == "" {
		return errors.New("schema name is required")
	}
	if s.Delimiter == '"' || s.Delimiter == '\r' || s.Delimiter == '\n' ||
		s.Delimiter == utf8.RuneError || !utf8.ValidRune(s.Delimiter) {
		return fmt.Errorf("schema %s: invalid delimiter %q", s.Name, s.Delimiter)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema %s: no fields", s.Name)
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name == "" || f.Value == nil {
			return fmt.Errorf("schema %s: field %d is incomplete", s.Name, i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("schema %s: duplicate field %s", s.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Record renders p in field order. Absent values become empty columns.
func (s Schema) Record(p *models.Payment) []string {
	record := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		record[i] = f.Value(p)
	}
	return record
}

var (
	fieldID               = Field{"id", func(p *models.Payment) string { return strconv.FormatInt(p.ID, 10) }}
	fieldAmount           = Field{"amount", func(p *models.Payment) string { return domain.FormatAmount(p.Amount) }}
	fieldCurrency         = Field{"currency", func(p *models.Payment) string { return p.Currency }}
	fieldStatus           = Field{"status", func(p *models.Payment) string { return string(p.Status) }}
	fieldDate             = Field{"paymentDate", formatDate}
	fieldType             = Field{"paymentType", formatType}
	fieldCustomerName     = Field{"customerName", func(p *models.Payment) string { return p.CustomerName }}
	fieldCustomerEmail    = Field{"customerEmail", func(p *models.Payment) string { return p.CustomerEmail }}
	fieldAmountInUSD      = Field{"amountInUSD", func(p *models.Payment) string { return domain.FormatNullAmount(p.AmountInUSD) }}
	fieldCommission       = Field{"commission", func(p *models.Payment) string { return domain.FormatNullAmount(p.Commission) }}
	fieldValidationStatus = Field{"validationStatus", func(p *models.Payment) string { return string(p.ValidationStatus) }}
	fieldErrorMessage     = Field{"errorMessage", func(p *models.Payment) string { return p.ErrorMessage }}
)

func formatDate(p *models.Payment) string {
	if p.PaymentDate == nil {
		return ""
	}
	return p.PaymentDate.Format(DateTimeLayout)
}

func formatType(p *models.Payment) string {
	if p.PaymentType == nil {
		return ""
	}
	return string(*p.PaymentType)
}

// ValidatedSchema is the layout of payments that passed validation.
var ValidatedSchema = Schema{
	Name:      "validated",
	Delimiter: ',',
	Fields: []Field{
		fieldID, fieldAmount, fieldCurrency, fieldStatus, fieldDate, fieldType,
		fieldCustomerName, fieldCustomerEmail, fieldAmountInUSD, fieldCommission, fieldValidationStatus,
	},
}

// ReportSchema is the abbreviated audit layout covering every payment.
var ReportSchema = Schema{
	Name:      "report",
	Delimiter: '|',
	Fields: []Field{
		fieldID, fieldAmount, fieldCurrency, fieldAmountInUSD, fieldCommission, fieldType, fieldStatus,
	},
}

// RejectedSchema is the layout of payments that failed validation.
var RejectedSchema = Schema{
	Name:      "rejected",
	Delimiter: ',',
	Fields: []Field{
		fieldID, fieldAmount, fieldCurrency, fieldStatus, fieldDate, fieldType,
		fieldCustomerName, fieldCustomerEmail, fieldErrorMessage,
	},
}

// Line joins the record of p with the schema delimiter. Values are written
// as they are, without quoting or escaping.
func (s Schema) Line(p *models.Payment) string {
	return strings.Join(s.Record(p), string(s.Delimiter))
}
