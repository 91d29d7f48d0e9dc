package service

import (
	"context"
	"errors"

	"github.com/Dan9191/account-ledger/internal/models"
	"github.com/Dan9191/account-ledger/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PostTransactionInput is the payload of a transaction request
type PostTransactionInput struct {
	PaymentType   string  `json:"payment_type" validate:"required,oneof=P C D"`
	AccountNumber *int64  `json:"account_number" validate:"required"`
	Value         *Amount `json:"value" validate:"required,amount,dmin=0.01"`
}

// TransactionResult is the state of the account after a posted transaction
type TransactionResult struct {
	AccountNumber int64
	Balance       decimal.Decimal
}

// PostTransaction charges value plus the payment type fee to an account and
// records the transaction. The balance check, the transaction record and the
// balance update happen in one unit of work while the account is locked.
func (s *Service) PostTransaction(ctx context.Context, in PostTransactionInput) (*TransactionResult, error) {
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}
	number, value := *in.AccountNumber, in.Value.Decimal

	var result *TransactionResult
	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		account, err := q.LockAccountByNumber(ctx, number)
		if err != nil {
			return &PersistenceError{Op: "find account", Err: err}
		}
		if account == nil {
			return ErrAccountNotFound
		}

		paymentType, err := q.GetPaymentTypeByCode(ctx, in.PaymentType)
		if err != nil {
			return &PersistenceError{Op: "find payment type", Err: err}
		}
		if paymentType == nil {
			return ErrInvalidPaymentType
		}

		charge := paymentType.Charge(value)
		if account.Balance.LessThan(charge) {
			return ErrInsufficientBalance
		}

		tx := &models.Transaction{
			AccountID:     account.ID,
			PaymentTypeID: paymentType.ID,
			Value:         value,
			Fee:           paymentType.Fee,
		}
		if err := q.CreateTransaction(ctx, tx); err != nil {
			return &PersistenceError{Op: "record transaction", Err: err}
		}

		balance := account.Balance.Sub(charge)
		ok, err := q.UpdateBalance(ctx, number, balance)
		if err != nil {
			return &PersistenceError{Op: "update balance", Err: err}
		}
		if !ok {
			return &PersistenceError{Op: "update balance", Err: errors.New("account row not updated")}
		}

		result = &TransactionResult{AccountNumber: number, Balance: balance}
		return nil
	})
	if err != nil {
		var perr *PersistenceError
		switch {
		case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrInvalidPaymentType), errors.Is(err, ErrInsufficientBalance):
			s.log.WithFields(logrus.Fields{
				"account_number": number,
				"payment_type":   in.PaymentType,
				"value":          value.String(),
			}).Infof("Transaction rejected: %v", err)
			return nil, err
		case errors.As(err, &perr):
			return nil, err
		default:
			return nil, &PersistenceError{Op: "commit transaction", Err: err}
		}
	}

	s.log.WithFields(logrus.Fields{
		"account_number": number,
		"payment_type":   in.PaymentType,
		"value":          value.String(),
		"balance":        result.Balance.String(),
	}).Info("Transaction posted")
	return result, nil
}

// GetTransaction returns the transaction with the given id, or nil if there
// is none
func (s *Service) GetTransaction(ctx context.Context, id int64) (*models.TransactionDetail, error) {
	t, err := s.store.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "find transaction", Err: err}
	}
	return t, nil
}
