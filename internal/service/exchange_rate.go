package service

import (
	"context"

	"github.com/shopspring/decimal"
)

// CurrencyConverter converts an amount in the given currency to USD.
type CurrencyConverter interface {
	ConvertToUSD(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, error)
}

// IdentityConverter is the conversion placeholder: it returns the amount
// unchanged for every currency until a rate source is plugged in.
type IdentityConverter struct{}

func NewIdentityConverter() *IdentityConverter {
	return &IdentityConverter{}
}

func (IdentityConverter) ConvertToUSD(_ context.Context, amount decimal.Decimal, _ string) (decimal.Decimal, error) {
	return amount, nil
}
