package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/account-ledger/internal/models"
	"github.com/shopspring/decimal"
)

const selectAccount = `
		SELECT id, account_number, balance, initial_balance, created_at, updated_at
		FROM ledger.accounts
		WHERE account_number = $1`

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO ledger.accounts (account_number, balance, initial_balance, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, account.AccountNumber, account.Balance, account.InitialBalance).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateAccount
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByNumber retrieves an account by its number
func (r *Repository) GetAccountByNumber(ctx context.Context, number int64) (*models.Account, error) {
	return r.findAccount(ctx, selectAccount, number)
}

// LockAccountByNumber retrieves an account and locks its row until the
// transaction ends
func (r *Repository) LockAccountByNumber(ctx context.Context, number int64) (*models.Account, error) {
	return r.findAccount(ctx, selectAccount+"\n\t\tFOR UPDATE", number)
}

func (r *Repository) findAccount(ctx context.Context, query string, number int64) (*models.Account, error) {
	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, number).
		Scan(&account.ID, &account.AccountNumber, &account.Balance, &account.InitialBalance, &account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account %d: %w", number, err)
	}
	return account, nil
}

// UpdateBalance overwrites the balance of an account and reports whether the
// account exists
func (r *Repository) UpdateBalance(ctx context.Context, number int64, balance decimal.Decimal) (bool, error) {
	query := `
		UPDATE ledger.accounts
		SET balance = $1, updated_at = CURRENT_TIMESTAMP
		WHERE account_number = $2`
	res, err := r.db.ExecContext(ctx, query, balance, number)
	if err != nil {
		return false, fmt.Errorf("failed to update balance of account %d: %w", number, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update balance of account %d: %w", number, err)
	}
	return n > 0, nil
}
