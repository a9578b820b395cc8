package models

import (
	"time"

	"github.com/ayo6706/payment-batch/internal/domain"
	"github.com/shopspring/decimal"
)

// Payment is a single record read from the input file.
// Derived fields stay null until the payment validates.
type Payment struct {
	ID            int64
	Amount        decimal.Decimal
	Currency      string
	Status        domain.PaymentStatus
	PaymentDate   *time.Time
	PaymentType   *domain.PaymentType
	CustomerName  string
	CustomerEmail string

	AmountInUSD      decimal.NullDecimal
	Commission       decimal.NullDecimal
	ValidationStatus domain.ValidationStatus
	ErrorMessage     string
}

// Finalized reports whether the payment already went through validation.
func (p *Payment) Finalized() bool {
	return p.ValidationStatus != ""
}

// Clone returns a deep copy so that callers can mutate it independently.
func (p *Payment) Clone() *Payment {
	c := *p
	if p.PaymentDate != nil {
		d := *p.PaymentDate
		c.PaymentDate = &d
	}
	if p.PaymentType != nil {
		t := *p.PaymentType
		c.PaymentType = &t
	}
	return &c
}
