package repository

import (
	"context"
	"errors"

	"github.com/Dan9191/account-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ErrDuplicateAccount is returned when an account number is already taken
var ErrDuplicateAccount = errors.New("account number already in use")

// Querier is the set of ledger operations available both on a store and
// inside one of its units of work. Lookups return (nil, nil) when nothing
// matches.
type Querier interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByNumber(ctx context.Context, number int64) (*models.Account, error)
	// LockAccountByNumber is GetAccountByNumber plus an exclusive lock on the
	// account held until the surrounding unit of work ends.
	LockAccountByNumber(ctx context.Context, number int64) (*models.Account, error)
	UpdateBalance(ctx context.Context, number int64, balance decimal.Decimal) (bool, error)

	GetPaymentTypeByCode(ctx context.Context, code string) (*models.PaymentType, error)
	ListPaymentTypes(ctx context.Context) ([]models.PaymentType, error)
	UpsertPaymentType(ctx context.Context, paymentType *models.PaymentType) error

	CreateTransaction(ctx context.Context, transaction *models.Transaction) error
	GetTransactionByID(ctx context.Context, id int64) (*models.TransactionDetail, error)

	FindDiscrepancies(ctx context.Context) ([]models.Discrepancy, error)
}

// Store is a Querier that can run a unit of work. WithTx commits when fn
// returns nil and rolls back otherwise.
type Store interface {
	Querier
	WithTx(ctx context.Context, fn func(q Querier) error) error
	Ping(ctx context.Context) error
}
