package service

import (
	"fmt"

	"github.com/ayo6706/payment-batch/internal/domain"
	"github.com/ayo6706/payment-batch/internal/models"
)

var paymentTransitions = map[domain.PaymentStatus]map[domain.PaymentStatus]struct{}{
	domain.PaymentStatusPending: {
		domain.PaymentStatusProcessed: {},
		domain.PaymentStatusInvalid:   {},
	},
	domain.PaymentStatusProcessed: {},
	domain.PaymentStatusInvalid:   {},
}

// lifecycleState is PENDING for any payment that has not been validated,
// whatever status the input file carried.
func lifecycleState(p *models.Payment) domain.PaymentStatus {
	if !p.Finalized() {
		return domain.PaymentStatusPending
	}
	return p.Status
}

func canTransition(current, next domain.PaymentStatus) bool {
	nextStates, ok := paymentTransitions[current]
	if !ok {
		return false
	}
	_, ok = nextStates[next]
	return ok
}

func markProcessed(p *models.Payment, derived Derived) error {
	if err := checkTransition(p, domain.PaymentStatusProcessed); err != nil {
		return err
	}
	p.Status = domain.PaymentStatusProcessed
	p.ValidationStatus = domain.ValidationStatusValid
	p.Commission.Decimal, p.Commission.Valid = derived.Commission, true
	p.AmountInUSD.Decimal, p.AmountInUSD.Valid = derived.AmountInUSD, true
	p.ErrorMessage = ""
	return nil
}

func markInvalid(p *models.Payment, failure *ValidationFailure) error {
	if err := checkTransition(p, domain.PaymentStatusInvalid); err != nil {
		return err
	}
	p.Status = domain.PaymentStatusInvalid
	p.ValidationStatus = domain.ValidationStatusInvalid
	p.ErrorMessage = failure.Message
	p.Commission.Valid = false
	p.AmountInUSD.Valid = false
	return nil
}

func checkTransition(p *models.Payment, next domain.PaymentStatus) error {
	current := lifecycleState(p)
	if !canTransition(current, next) {
		return fmt.Errorf("payment %d: %s -> %s: %w", p.ID, current, next, ErrPaymentFinalized)
	}
	return nil
}
