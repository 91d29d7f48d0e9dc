package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/account-ledger/internal/models"
)

// CreateTransaction records a posted transaction
func (r *Repository) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	query := `
		INSERT INTO ledger.transactions (account_id, payment_type_id, value, fee, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		transaction.AccountID, transaction.PaymentTypeID, transaction.Value, transaction.Fee).
		Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionByID retrieves a transaction with its account number and
// payment type code
func (r *Repository) GetTransactionByID(ctx context.Context, id int64) (*models.TransactionDetail, error) {
	t := &models.TransactionDetail{}
	query := `
		SELECT t.id, t.account_id, t.payment_type_id, t.value, t.fee, t.created_at, a.account_number, pt.code
		FROM ledger.transactions t
		JOIN ledger.accounts a ON a.id = t.account_id
		JOIN ledger.payment_types pt ON pt.id = t.payment_type_id
		WHERE t.id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&t.ID, &t.AccountID, &t.PaymentTypeID, &t.Value, &t.Fee, &t.CreatedAt, &t.AccountNumber, &t.PaymentTypeCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %d: %w", id, err)
	}
	return t, nil
}

// FindDiscrepancies returns the accounts whose balance differs from their
// initial balance minus what their transactions charged, using the fee
// recorded on each transaction
func (r *Repository) FindDiscrepancies(ctx context.Context) ([]models.Discrepancy, error) {
	query := `
		SELECT account_number, balance, expected
		FROM (
			SELECT a.account_number, a.balance,
				a.initial_balance - COALESCE(SUM(t.value + t.value * (t.fee / 100)), 0) AS expected
			FROM ledger.accounts a
			LEFT JOIN ledger.transactions t ON t.account_id = a.id
			GROUP BY a.id, a.account_number, a.balance, a.initial_balance
		) ledger
		WHERE balance <> expected
		ORDER BY account_number`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile accounts: %w", err)
	}
	defer rows.Close()

	var out []models.Discrepancy
	for rows.Next() {
		var d models.Discrepancy
		if err := rows.Scan(&d.AccountNumber, &d.Balance, &d.Expected); err != nil {
			return nil, fmt.Errorf("failed to scan discrepancy: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to reconcile accounts: %w", err)
	}
	return out, nil
}
