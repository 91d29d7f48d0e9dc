package models

import "github.com/shopspring/decimal"

// Payment type codes
const (
	PaymentTypePix    = "P"
	PaymentTypeCredit = "C"
	PaymentTypeDebit  = "D"
)

// PaymentTypeCodes lists every accepted payment type code
var PaymentTypeCodes = []string{PaymentTypePix, PaymentTypeCredit, PaymentTypeDebit}

// PaymentType is a fee schedule entry. Fee is a percentage in [0, 100].
type PaymentType struct {
	ID   int64           `json:"-"`
	Code string          `json:"code"`
	Name string          `json:"name"`
	Fee  decimal.Decimal `json:"fee"`
}

// IsPaymentTypeCode reports whether code is one of PaymentTypeCodes
func IsPaymentTypeCode(code string) bool {
	for _, c := range PaymentTypeCodes {
		if c == code {
			return true
		}
	}
	return false
}

// FeeAdjustedValue returns value with the fee percentage applied on top:
// value + value*(fee/100)
func FeeAdjustedValue(value, fee decimal.Decimal) decimal.Decimal {
	return value.Add(value.Mul(fee).Div(hundred))
}

var hundred = decimal.NewFromInt(100)

// Charge returns the amount debited from an account when value is posted
// with this payment type
func (p PaymentType) Charge(value decimal.Decimal) decimal.Decimal {
	return FeeAdjustedValue(value, p.Fee)
}
