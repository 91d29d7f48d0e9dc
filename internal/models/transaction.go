package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a posted transaction. Value is the amount requested
// by the caller, before the payment type fee is applied. Fee is the
// percentage the payment type charged at posting time.
type Transaction struct {
	ID            int64           `json:"id"`
	AccountID     int64           `json:"account_id"`
	PaymentTypeID int64           `json:"payment_type_id"`
	Value         decimal.Decimal `json:"value"`
	Fee           decimal.Decimal `json:"fee"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Charged is the amount the transaction took from its account
func (t Transaction) Charged() decimal.Decimal {
	return FeeAdjustedValue(t.Value, t.Fee)
}

// TransactionDetail is a transaction joined with its account number and
// payment type code
type TransactionDetail struct {
	Transaction
	AccountNumber   int64
	PaymentTypeCode string
}

// Discrepancy describes an account whose balance does not match its initial
// balance minus the fee-adjusted value of its transactions
type Discrepancy struct {
	AccountNumber int64           `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	Expected      decimal.Decimal `json:"expected"`
}
