package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ayo6706/payment-batch/internal/domain"
	"github.com/ayo6706/payment-batch/internal/models"
	"github.com/shopspring/decimal"
)

// FailureKind identifies the validation rule a payment broke.
type FailureKind string

const (
	AmountBelowMinimum  FailureKind = "AMOUNT_BELOW_MINIMUM"
	AmountAboveMaximum  FailureKind = "AMOUNT_ABOVE_MAXIMUM"
	UnsupportedCurrency FailureKind = "UNSUPPORTED_CURRENCY"
	MissingEmail        FailureKind = "MISSING_EMAIL"
	InvalidEmailFormat  FailureKind = "INVALID_EMAIL_FORMAT"
	MissingPaymentType  FailureKind = "MISSING_PAYMENT_TYPE"
	MissingPaymentDate  FailureKind = "MISSING_PAYMENT_DATE"
)

// ValidationFailure is the outcome of a payment that did not pass validation.
// It is carried on the record and never aborts processing.
type ValidationFailure struct {
	Kind    FailureKind
	Message string
}

func (f *ValidationFailure) Error() string {
	return f.Message
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@\S+$`)

// Rules holds the thresholds a payment is validated against.
type Rules struct {
	MinAmount           decimal.Decimal
	MaxAmount           decimal.Decimal
	SupportedCurrencies []string
}

// Validator checks payments against a fixed, ordered rule set.
type Validator struct {
	minAmount  decimal.Decimal
	maxAmount  decimal.Decimal
	currencies map[string]struct{}
}

func NewValidator(rules Rules) *Validator {
	currencies := make(map[string]struct{}, len(rules.SupportedCurrencies))
	for _, c := range rules.SupportedCurrencies {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		currencies[c] = struct{}{}
	}
	return &Validator{
		minAmount:  rules.MinAmount,
		maxAmount:  rules.MaxAmount,
		currencies: currencies,
	}
}

// Validate returns nil when the payment passes every rule. Otherwise it
// returns the first failing rule; later rules are not evaluated.
func (v *Validator) Validate(p *models.Payment) *ValidationFailure {
	if p.Amount.Cmp(v.minAmount) < 0 {
		return fail(AmountBelowMinimum, "amount is below the minimum allowed: %s", domain.FormatThreshold(v.minAmount))
	}
	if p.Amount.Cmp(v.maxAmount) > 0 {
		return fail(AmountAboveMaximum, "amount is above the maximum allowed: %s", domain.FormatThreshold(v.maxAmount))
	}
	if _, ok := v.currencies[p.Currency]; !ok {
		return fail(UnsupportedCurrency, "unsupported currency: %s", p.Currency)
	}
	if p.CustomerEmail == "" {
		return fail(MissingEmail, "customer email is required")
	}
	if !emailPattern.MatchString(p.CustomerEmail) {
		return fail(InvalidEmailFormat, "invalid email format: %s", p.CustomerEmail)
	}
	if p.PaymentType == nil {
		return fail(MissingPaymentType, "payment type is required")
	}
	if p.PaymentDate == nil {
		return fail(MissingPaymentDate, "payment date is required")
	}
	return nil
}

func fail(kind FailureKind, format string, args ...any) *ValidationFailure {
	return &ValidationFailure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
