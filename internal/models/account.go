package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a ledger account identified by its account number
type Account struct {
	ID             int64           `json:"-"`
	AccountNumber  int64           `json:"account_number"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"-"`
	CreatedAt      time.Time       `json:"-"`
	UpdatedAt      time.Time       `json:"-"`
}
