package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/account-ledger/internal/models"
)

// GetPaymentTypeByCode retrieves a payment type by its code
func (r *Repository) GetPaymentTypeByCode(ctx context.Context, code string) (*models.PaymentType, error) {
	pt := &models.PaymentType{}
	query := `
		SELECT id, code, name, fee
		FROM ledger.payment_types
		WHERE code = $1`
	err := r.db.QueryRowContext(ctx, query, code).Scan(&pt.ID, &pt.Code, &pt.Name, &pt.Fee)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment type %q: %w", code, err)
	}
	return pt, nil
}

// ListPaymentTypes returns every payment type ordered by code
func (r *Repository) ListPaymentTypes(ctx context.Context) ([]models.PaymentType, error) {
	query := `
		SELECT id, code, name, fee
		FROM ledger.payment_types
		ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment types: %w", err)
	}
	defer rows.Close()

	var types []models.PaymentType
	for rows.Next() {
		var pt models.PaymentType
		if err := rows.Scan(&pt.ID, &pt.Code, &pt.Name, &pt.Fee); err != nil {
			return nil, fmt.Errorf("failed to scan payment type: %w", err)
		}
		types = append(types, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payment types: %w", err)
	}
	return types, nil
}

// UpsertPaymentType inserts a payment type or updates the name and fee of the
// one with the same code
func (r *Repository) UpsertPaymentType(ctx context.Context, paymentType *models.PaymentType) error {
	query := `
		INSERT INTO ledger.payment_types (code, name, fee, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name, fee = EXCLUDED.fee, updated_at = CURRENT_TIMESTAMP
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, paymentType.Code, paymentType.Name, paymentType.Fee).
		Scan(&paymentType.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert payment type %q: %w", paymentType.Code, err)
	}
	return nil
}
