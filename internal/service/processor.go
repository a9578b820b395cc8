package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayo6706/payment-batch/internal/models"
	"go.uber.org/zap"
)

var ErrPaymentFinalized = errors.New("payment already validated")

// PaymentProcessor validates a payment and, when it passes, fills in its
// derived fields. Each payment is mutated exactly once.
type PaymentProcessor struct {
	validator  *Validator
	calculator *Calculator
}

func NewPaymentProcessor(validator *Validator, calculator *Calculator) *PaymentProcessor {
	return &PaymentProcessor{
		validator:  validator,
		calculator: calculator,
	}
}

// Process moves p from PENDING to PROCESSED or INVALID. A validation failure
// is recorded on p and is not an error; errors are returned only when the
// conversion hook fails or p was already processed.
func (s *PaymentProcessor) Process(ctx context.Context, p *models.Payment) error {
	if p.Finalized() {
		return fmt.Errorf("process payment %d: %w", p.ID, ErrPaymentFinalized)
	}

	if failure := s.validator.Validate(p); failure != nil {
		if err := markInvalid(p, failure); err != nil {
			return err
		}
		zap.L().Warn("payment rejected",
			zap.Int64("payment_id", p.ID),
			zap.String("reason", string(failure.Kind)),
			zap.String("error_message", failure.Message),
		)
		return nil
	}

	derived, err := s.calculator.Calculate(ctx, p)
	if err != nil {
		return fmt.Errorf("process payment %d: %w", p.ID, err)
	}
	if err := markProcessed(p, derived); err != nil {
		return err
	}
	zap.L().Debug("payment processed",
		zap.Int64("payment_id", p.ID),
		zap.String("commission", derived.Commission.String()),
		zap.String("amount_in_usd", derived.AmountInUSD.String()),
	)
	return nil
}
