package domain

import "strings"

// PaymentStatus is the lifecycle status of a payment record.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusProcessed PaymentStatus = "PROCESSED"
	PaymentStatusInvalid   PaymentStatus = "INVALID"
)

// ValidationStatus is empty until a payment has been validated.
type ValidationStatus string

const (
	ValidationStatusValid   ValidationStatus = "VALID"
	ValidationStatusInvalid ValidationStatus = "INVALID"
)

// PaymentType is the instrument a payment was made with.
type PaymentType string

const (
	PaymentTypeCreditCard   PaymentType = "CREDIT_CARD"
	PaymentTypeDebitCard    PaymentType = "DEBIT_CARD"
	PaymentTypeBankTransfer PaymentType = "BANK_TRANSFER"
	PaymentTypePayPal       PaymentType = "PAYPAL"
)

var paymentTypes = map[PaymentType]struct{}{
	PaymentTypeCreditCard:   {},
	PaymentTypeDebitCard:    {},
	PaymentTypeBankTransfer: {},
	PaymentTypePayPal:       {},
}

// ParsePaymentType returns false for blank or unknown values.
func ParsePaymentType(raw string) (PaymentType, bool) {
	t := PaymentType(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := paymentTypes[t]; !ok {
		return "", false
	}
	return t, true
}

// Currency codes accepted when nothing else is configured.
const DefaultSupportedCurrencies = "USD,EUR,GBP,JPY"

// USD is the target currency of the conversion hook.
const USD = "USD"
