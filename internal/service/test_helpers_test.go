package service

import (
	"time"

	"github.com/ayo6706/payment-batch/internal/domain"
	"github.com/ayo6706/payment-batch/internal/models"
	"github.com/shopspring/decimal"
)

func testRules() Rules {
	return Rules{
		MinAmount:           decimal.RequireFromString("10.0"),
		MaxAmount:           decimal.RequireFromString("10000.0"),
		SupportedCurrencies: []string{"USD", "EUR", "GBP", "JPY"},
	}
}

func newTestProcessor() *PaymentProcessor {
	return NewPaymentProcessor(
		NewValidator(testRules()),
		NewCalculator(decimal.RequireFromString("0.02"), NewIdentityConverter()),
	)
}

// validPayment builds a payment that passes every rule in testRules.
func validPayment() *models.Payment {
	date := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	paymentType := domain.PaymentTypeCreditCard
	return &models.Payment{
		ID:            1,
		Amount:        decimal.RequireFromString("100.00"),
		Currency:      "USD",
		Status:        domain.PaymentStatusPending,
		PaymentDate:   &date,
		PaymentType:   &paymentType,
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
	}
}
