package service

import (
	"context"
	"testing"

	"github.com/Dan9191/account-ledger/internal/feeschedule"
	"github.com/Dan9191/account-ledger/internal/models"
	"github.com/Dan9191/account-ledger/internal/repository"
	"github.com/Dan9191/account-ledger/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	require.NoError(t, feeschedule.Seed(context.Background(), store, feeschedule.Default()))
	log, _ := test.NewNullLogger()
	return NewService(store, log), store
}

func createAccount(t *testing.T, svc *Service, number int64, balance string) *models.Account {
	t.Helper()
	a, err := svc.CreateAccount(context.Background(), CreateAccountInput{
		AccountNumber: &number,
		Balance:       MustAmount(balance),
	})
	require.NoError(t, err)
	return a
}

func int64p(n int64) *int64 { return &n }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// faultyStore injects write failures into units of work
type faultyStore struct {
	*memory.Store
	createErr error
	updateErr error
	noRows    bool
}

func (f *faultyStore) WithTx(ctx context.Context, fn func(q repository.Querier) error) error {
	return f.Store.WithTx(ctx, func(q repository.Querier) error {
		return fn(&faultyQuerier{Querier: q, f: f})
	})
}

type faultyQuerier struct {
	repository.Querier
	f *faultyStore
}

func (q *faultyQuerier) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if q.f.createErr != nil {
		return q.f.createErr
	}
	return q.Querier.CreateTransaction(ctx, t)
}

func (q *faultyQuerier) UpdateBalance(ctx context.Context, number int64, balance decimal.Decimal) (bool, error) {
	if q.f.updateErr != nil {
		return false, q.f.updateErr
	}
	if q.f.noRows {
		return false, nil
	}
	return q.Querier.UpdateBalance(ctx, number, balance)
}
