package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Money is a value object for a monetary amount expressed in minor units
// (cents) with an ISO 4217 currency code. Orders carry their total as Money.
//
// Example:
//
//	total, err := kernel.NewMoney(15990, "BRL") // R$ 159.90
type Money struct {
	amountCents int64
	currency    string
}

// NewMoney creates a Money value. The amount must not be negative and the
// currency must be a three-letter code.
func NewMoney(amountCents int64, currency string) (Money, error) {
	if amountCents < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is negative", amountCents))
	}
	if len(currency) != 3 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%q is not a three-letter currency code", currency))
	}
	return Money{amountCents: amountCents, currency: currency}, nil
}

// AmountCents returns the amount in minor units.
func (m Money) AmountCents() int64 {
	return m.amountCents
}

// Currency returns the ISO 4217 currency code.
func (m Money) Currency() string {
	return m.currency
}

// IsEqual reports whether two Money values have the same amount and currency.
func (m Money) IsEqual(other Money) bool {
	return m.amountCents == other.amountCents && m.currency == other.currency
}

// String formats the amount with two decimal places and the currency code.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.amountCents/100, m.amountCents%100, m.currency)
}

// Validate returns an error for a Money value with an empty currency,
// which can only happen for a zero value that bypassed NewMoney.
func (m Money) Validate() error {
	if m.currency == "" {
		return errs.NewValueIsRequiredError("Money must be created via NewMoney")
	}
	return nil
}
