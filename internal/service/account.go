package service

import (
	"context"
	"errors"

	"github.com/Dan9191/account-ledger/internal/models"
	"github.com/sirupsen/logrus"
)

// CreateAccountInput is the payload of an account creation request
type CreateAccountInput struct {
	AccountNumber *int64  `json:"account_number" validate:"required"`
	Balance       *Amount `json:"balance" validate:"required,amount,dmin=0"`
}

// CreateAccount opens an account with the given number and initial balance
func (s *Service) CreateAccount(ctx context.Context, in CreateAccountInput) (*models.Account, error) {
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.store.GetAccountByNumber(ctx, *in.AccountNumber)
	if err != nil {
		return nil, &PersistenceError{Op: "find account", Err: err}
	}
	if existing != nil {
		return nil, duplicateAccountError()
	}

	account := &models.Account{
		AccountNumber:  *in.AccountNumber,
		Balance:        in.Balance.Decimal,
		InitialBalance: in.Balance.Decimal,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, ErrDuplicateAccount) {
			return nil, duplicateAccountError()
		}
		return nil, &PersistenceError{Op: "create account", Err: err}
	}

	s.log.WithFields(logrus.Fields{
		"account_number": account.AccountNumber,
		"balance":        account.Balance.String(),
	}).Info("Account created")
	return account, nil
}

// GetAccount returns the account with the given number, or nil if there is
// none
func (s *Service) GetAccount(ctx context.Context, number int64) (*models.Account, error) {
	account, err := s.store.GetAccountByNumber(ctx, number)
	if err != nil {
		return nil, &PersistenceError{Op: "find account", Err: err}
	}
	return account, nil
}
