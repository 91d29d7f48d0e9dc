package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dan9191/account-ledger/internal/models"
	"github.com/Dan9191/account-ledger/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(svc *Service, code string, number int64, value string) (*TransactionResult, error) {
	return svc.PostTransaction(context.Background(), PostTransactionInput{
		PaymentType:   code,
		AccountNumber: &number,
		Value:         MustAmount(value),
	})
}

func TestPostTransaction(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		code    string
		value   string
		fee     string
		want    string
	}{
		{"debit", "180.37", "D", "10", "3", "170.07"},
		{"credit", "100", "C", "20", "5", "79"},
		{"pix", "50", "P", "12.5", "0", "37.5"},
		{"exact balance", "10.5", "C", "10", "5", "0"},
		{"smallest value", "1", "D", "0.01", "3", "0.9897"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)
			createAccount(t, svc, 234, tt.initial)

			res, err := post(svc, tt.code, 234, tt.value)
			require.NoError(t, err)
			assert.Equal(t, int64(234), res.AccountNumber)
			assert.True(t, res.Balance.Equal(dec(tt.want)), "got %s", res.Balance)

			got, err := svc.GetAccount(context.Background(), 234)
			require.NoError(t, err)
			assert.True(t, got.Balance.Equal(dec(tt.want)))

			txs := store.Transactions()
			require.Len(t, txs, 1)
			assert.True(t, txs[0].Value.Equal(dec(tt.value)), "stored value excludes the fee")
			assert.True(t, txs[0].Fee.Equal(dec(tt.fee)))
		})
	}
}

func TestPostTransaction_Sequence(t *testing.T) {
	svc, store := newTestService(t)
	createAccount(t, svc, 7, "100")

	_, err := post(svc, "D", 7, "10")
	require.NoError(t, err)
	res, err := post(svc, "C", 7, "20")
	require.NoError(t, err)
	assert.True(t, res.Balance.Equal(dec("68.7")))
	assert.Len(t, store.Transactions(), 2)
}

func TestPostTransaction_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		number  int64
		value   string
		wantErr error
	}{
		{"insufficient balance", "C", 1, "9.6", ErrInsufficientBalance},
		{"fee pushes over balance", "D", 1, "9.71", ErrInsufficientBalance},
		{"unknown account", "P", 2, "1", ErrAccountNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)
			createAccount(t, svc, 1, "10")

			_, err := post(svc, tt.code, tt.number, tt.value)
			assert.ErrorIs(t, err, tt.wantErr)

			got, _ := svc.GetAccount(context.Background(), 1)
			assert.True(t, got.Balance.Equal(dec("10")))
			assert.Empty(t, store.Transactions())
		})
	}
}

func TestPostTransaction_PaymentTypeNotConfigured(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.UpsertPaymentType(ctx, &models.PaymentType{Code: "P", Name: "Pix", Fee: dec("0")}))
	log, _ := test.NewNullLogger()
	svc := NewService(store, log)
	createAccount(t, svc, 1, "10")

	_, err := post(svc, "D", 1, "1")
	assert.ErrorIs(t, err, ErrInvalidPaymentType)
	assert.Empty(t, store.Transactions())
}

func TestPostTransaction_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   PostTransactionInput
		want map[string][]string
	}{
		{
			name: "empty",
			in:   PostTransactionInput{},
			want: map[string][]string{
				"payment_type":   {"The payment type field is required."},
				"account_number": {"The account number field is required."},
				"value":          {"The value field is required."},
			},
		},
		{
			name: "unknown payment type",
			in:   PostTransactionInput{PaymentType: "X", AccountNumber: int64p(1), Value: MustAmount("1")},
			want: map[string][]string{
				"payment_type": {"The payment type must be P, C or D."},
			},
		},
		{
			name: "zero value",
			in:   PostTransactionInput{PaymentType: "P", AccountNumber: int64p(1), Value: MustAmount("0")},
			want: map[string][]string{
				"value": {"The value must be at least 0.01."},
			},
		},
		{
			name: "below minimum",
			in:   PostTransactionInput{PaymentType: "P", AccountNumber: int64p(1), Value: MustAmount("0.009")},
			want: map[string][]string{
				"value": {"The value must be at least 0.01."},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)
			createAccount(t, svc, 1, "10")

			_, err := svc.PostTransaction(context.Background(), tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Fields)
			assert.Empty(t, store.Transactions())
		})
	}
}

func TestPostTransaction_AmountOutOfRange(t *testing.T) {
	tests := map[string]decimal.Decimal{
		"huge exponent":     decimal.New(1, 10000000),
		"tiny exponent":     decimal.New(1, -10000000),
		"too many digits":   decimal.RequireFromString("1234567890123456789012345678901"),
		"too many decimals": decimal.RequireFromString("0.123456789012345678901"),
	}
	for name, d := range tests {
		t.Run(name, func(t *testing.T) {
			svc, store := newTestService(t)
			createAccount(t, svc, 1, "100")

			start := time.Now()
			_, err := svc.PostTransaction(context.Background(), PostTransactionInput{
				PaymentType:   "P",
				AccountNumber: int64p(1),
				Value:         &Amount{Decimal: d},
			})
			assert.Less(t, time.Since(start), time.Second)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, map[string][]string{
				"value": {"The value must have at most 30 digits and 20 decimal places."},
			}, verr.Fields)
			assert.Empty(t, store.Transactions())
		})
	}
}

func TestPostTransaction_PersistenceFailure(t *testing.T) {
	boom := errors.New("disk full")
	tests := []struct {
		name  string
		store func(*memory.Store) *faultyStore
		op    string
	}{
		{"record fails", func(m *memory.Store) *faultyStore { return &faultyStore{Store: m, createErr: boom} }, "record transaction"},
		{"update fails", func(m *memory.Store) *faultyStore { return &faultyStore{Store: m, updateErr: boom} }, "update balance"},
		{"no row updated", func(m *memory.Store) *faultyStore { return &faultyStore{Store: m, noRows: true} }, "update balance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			healthy, mem := newTestService(t)
			createAccount(t, healthy, 1, "100")

			log, _ := test.NewNullLogger()
			svc := NewService(tt.store(mem), log)

			_, err := post(svc, "D", 1, "10")
			var perr *PersistenceError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.op, perr.Op)

			got, _ := mem.GetAccountByNumber(context.Background(), 1)
			assert.True(t, got.Balance.Equal(dec("100")))
			assert.Empty(t, mem.Transactions())
		})
	}
}

func TestPostTransaction_ConcurrentNeverOverdraws(t *testing.T) {
	svc, store := newTestService(t)
	createAccount(t, svc, 1, "100")

	const workers = 100
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
		rejected  atomic.Int64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := post(svc, "P", 1, "1.5")
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, ErrInsufficientBalance):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(66), succeeded.Load())
	assert.Equal(t, int64(workers-66), rejected.Load())

	got, _ := svc.GetAccount(context.Background(), 1)
	assert.True(t, got.Balance.Equal(dec("1")), "got %s", got.Balance)
	assert.Len(t, store.Transactions(), 66)
}

func TestGetTransaction(t *testing.T) {
	svc, store := newTestService(t)
	createAccount(t, svc, 234, "180.37")
	_, err := post(svc, "D", 234, "10")
	require.NoError(t, err)

	id := store.Transactions()[0].ID
	got, err := svc.GetTransaction(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(234), got.AccountNumber)
	assert.Equal(t, "D", got.PaymentTypeCode)
	assert.True(t, got.Value.Equal(dec("10")))

	none, err := svc.GetTransaction(context.Background(), id+100)
	assert.NoError(t, err)
	assert.Nil(t, none)
}
