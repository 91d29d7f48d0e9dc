// Package memory provides an in-process ledger store. A single mutex
// serializes every operation, and a unit of work holds it until it commits,
// so posts against the same account never interleave.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/account-ledger/internal/models"
	"github.com/Dan9191/account-ledger/internal/repository"
	"github.com/shopspring/decimal"
)

// Store is an in-memory repository.Store
type Store struct {
	mu    sync.Mutex
	state *state
}

var (
	_ repository.Store   = (*Store)(nil)
	_ repository.Querier = (*state)(nil)
)

// New returns an empty store
func New() *Store {
	return &Store{state: newState()}
}

type state struct {
	accounts     map[int64]*models.Account
	paymentTypes map[string]*models.PaymentType
	transactions []models.Transaction
	nextID       struct{ account, paymentType, transaction int64 }
}

func newState() *state {
	return &state{
		accounts:     make(map[int64]*models.Account),
		paymentTypes: make(map[string]*models.PaymentType),
	}
}

func (s *state) clone() *state {
	cp := &state{
		accounts:     make(map[int64]*models.Account, len(s.accounts)),
		paymentTypes: make(map[string]*models.PaymentType, len(s.paymentTypes)),
		transactions: append([]models.Transaction(nil), s.transactions...),
		nextID:       s.nextID,
	}
	for k, v := range s.accounts {
		a := *v
		cp.accounts[k] = &a
	}
	for k, v := range s.paymentTypes {
		pt := *v
		cp.paymentTypes[k] = &pt
	}
	return cp
}

// WithTx runs fn against a private copy of the store and publishes the copy
// only when fn succeeds
func (s *Store) WithTx(ctx context.Context, fn func(q repository.Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.state.clone()
	if err := fn(staged); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = staged
	return nil
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreateAccount(ctx, account)
}

func (s *Store) GetAccountByNumber(ctx context.Context, number int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetAccountByNumber(ctx, number)
}

func (s *Store) LockAccountByNumber(ctx context.Context, number int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LockAccountByNumber(ctx, number)
}

func (s *Store) UpdateBalance(ctx context.Context, number int64, balance decimal.Decimal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UpdateBalance(ctx, number, balance)
}

func (s *Store) GetPaymentTypeByCode(ctx context.Context, code string) (*models.PaymentType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetPaymentTypeByCode(ctx, code)
}

func (s *Store) ListPaymentTypes(ctx context.Context) ([]models.PaymentType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ListPaymentTypes(ctx)
}

func (s *Store) UpsertPaymentType(ctx context.Context, paymentType *models.PaymentType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UpsertPaymentType(ctx, paymentType)
}

func (s *Store) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreateTransaction(ctx, transaction)
}

func (s *Store) GetTransactionByID(ctx context.Context, id int64) (*models.TransactionDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetTransactionByID(ctx, id)
}

func (s *Store) FindDiscrepancies(ctx context.Context) ([]models.Discrepancy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.FindDiscrepancies(ctx)
}

// Transactions returns a copy of the transaction log
func (s *Store) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Transaction(nil), s.state.transactions...)
}

// state implements repository.Querier without locking; callers hold Store.mu.

func (s *state) CreateAccount(_ context.Context, account *models.Account) error {
	if _, ok := s.accounts[account.AccountNumber]; ok {
		return repository.ErrDuplicateAccount
	}
	s.nextID.account++
	now := time.Now().UTC()
	account.ID = s.nextID.account
	account.CreatedAt, account.UpdatedAt = now, now
	a := *account
	s.accounts[a.AccountNumber] = &a
	return nil
}

func (s *state) GetAccountByNumber(_ context.Context, number int64) (*models.Account, error) {
	a, ok := s.accounts[number]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *state) LockAccountByNumber(ctx context.Context, number int64) (*models.Account, error) {
	return s.GetAccountByNumber(ctx, number)
}

func (s *state) UpdateBalance(_ context.Context, number int64, balance decimal.Decimal) (bool, error) {
	a, ok := s.accounts[number]
	if !ok {
		return false, nil
	}
	a.Balance = balance
	a.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (s *state) GetPaymentTypeByCode(_ context.Context, code string) (*models.PaymentType, error) {
	pt, ok := s.paymentTypes[code]
	if !ok {
		return nil, nil
	}
	cp := *pt
	return &cp, nil
}

func (s *state) ListPaymentTypes(context.Context) ([]models.PaymentType, error) {
	out := make([]models.PaymentType, 0, len(s.paymentTypes))
	for _, pt := range s.paymentTypes {
		out = append(out, *pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *state) UpsertPaymentType(_ context.Context, paymentType *models.PaymentType) error {
	if existing, ok := s.paymentTypes[paymentType.Code]; ok {
		existing.Name = paymentType.Name
		existing.Fee = paymentType.Fee
		paymentType.ID = existing.ID
		return nil
	}
	s.nextID.paymentType++
	paymentType.ID = s.nextID.paymentType
	pt := *paymentType
	s.paymentTypes[pt.Code] = &pt
	return nil
}

func (s *state) CreateTransaction(_ context.Context, transaction *models.Transaction) error {
	s.nextID.transaction++
	transaction.ID = s.nextID.transaction
	transaction.CreatedAt = time.Now().UTC()
	s.transactions = append(s.transactions, *transaction)
	return nil
}

func (s *state) GetTransactionByID(_ context.Context, id int64) (*models.TransactionDetail, error) {
	for _, t := range s.transactions {
		if t.ID != id {
			continue
		}
		detail := &models.TransactionDetail{Transaction: t}
		if a := s.accountByID(t.AccountID); a != nil {
			detail.AccountNumber = a.AccountNumber
		}
		if pt := s.paymentTypeByID(t.PaymentTypeID); pt != nil {
			detail.PaymentTypeCode = pt.Code
		}
		return detail, nil
	}
	return nil, nil
}

func (s *state) FindDiscrepancies(context.Context) ([]models.Discrepancy, error) {
	charged := make(map[int64]decimal.Decimal)
	for _, t := range s.transactions {
		charged[t.AccountID] = charged[t.AccountID].Add(t.Charged())
	}

	var out []models.Discrepancy
	for _, a := range s.accounts {
		expected := a.InitialBalance.Sub(charged[a.ID])
		if !a.Balance.Equal(expected) {
			out = append(out, models.Discrepancy{AccountNumber: a.AccountNumber, Balance: a.Balance, Expected: expected})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountNumber < out[j].AccountNumber })
	return out, nil
}

func (s *state) accountByID(id int64) *models.Account {
	for _, a := range s.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *state) paymentTypeByID(id int64) *models.PaymentType {
	for _, pt := range s.paymentTypes {
		if pt.ID == id {
			return pt
		}
	}
	return nil
}
