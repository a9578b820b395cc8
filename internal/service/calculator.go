package service

import (
	"context"
	"fmt"

	"github.com/ayo6706/payment-batch/internal/domain"
	"github.com/ayo6706/payment-batch/internal/models"
	"github.com/shopspring/decimal"
)

// Derived holds the fields computed for a validated payment.
type Derived struct {
	Commission  decimal.Decimal
	AmountInUSD decimal.Decimal
}

// Calculator computes commission and the USD equivalent of a payment.
type Calculator struct {
	commissionRate decimal.Decimal
	converter      CurrencyConverter
}

func NewCalculator(commissionRate decimal.Decimal, converter CurrencyConverter) *Calculator {
	if converter == nil {
		converter = NewIdentityConverter()
	}
	return &Calculator{commissionRate: commissionRate, converter: converter}
}

// Calculate does not modify p.
func (c *Calculator) Calculate(ctx context.Context, p *models.Payment) (Derived, error) {
	usd, err := c.converter.ConvertToUSD(ctx, p.Amount, p.Currency)
	if err != nil {
		return Derived{}, fmt.Errorf("convert %s to %s: %w", p.Currency, domain.USD, err)
	}
	return Derived{
		Commission:  c.Commission(p.Amount),
		AmountInUSD: usd,
	}, nil
}

// Commission is amount * rate rounded half-up to minor units.
func (c *Calculator) Commission(amount decimal.Decimal) decimal.Decimal {
	return domain.RoundMinor(amount.Mul(c.commissionRate))
}
