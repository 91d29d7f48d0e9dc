package service

import (
	"context"

	"github.com/Dan9191/account-ledger/internal/models"
	"github.com/Dan9191/account-ledger/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Service handles business logic
type Service struct {
	store    repository.Store
	log      *logrus.Logger
	validate *validator.Validate
}

// NewService initializes a new service
func NewService(store repository.Store, log *logrus.Logger) *Service {
	return &Service{store: store, log: log, validate: newValidator()}
}

// ListPaymentTypes returns the fee schedule
func (s *Service) ListPaymentTypes(ctx context.Context) ([]models.PaymentType, error) {
	types, err := s.store.ListPaymentTypes(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list payment types", Err: err}
	}
	return types, nil
}

// Ping reports whether the store is reachable
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
