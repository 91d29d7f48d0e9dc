package email

import (
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/Dan9191/account-ledger/internal/config"
	"github.com/Dan9191/account-ledger/internal/models"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discrepancies = []models.Discrepancy{
	{AccountNumber: 2, Balance: decimal.RequireFromString("90"), Expected: decimal.RequireFromString("100")},
}

type sent struct {
	e    *email.Email
	addr string
	auth smtp.Auth
}

func newTestSender(cfg *config.Config, err error) (*Sender, *[]sent) {
	log, _ := test.NewNullLogger()
	s := NewSender(cfg, log)
	var calls []sent
	s.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		calls = append(calls, sent{e, addr, auth})
		return err
	}
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s, &calls
}

func alertConfig() *config.Config {
	return &config.Config{
		SMTPHost:    "smtp.example.com",
		SMTPPort:    "587",
		SenderEmail: "ledger@example.com",
		AlertEmail:  "ops@example.com",
	}
}

func TestSendDiscrepancyAlert(t *testing.T) {
	s, calls := newTestSender(alertConfig(), nil)

	require.NoError(t, s.SendDiscrepancyAlert(discrepancies))
	require.Len(t, *calls, 1)

	c := (*calls)[0]
	assert.Equal(t, "smtp.example.com:587", c.addr)
	assert.Nil(t, c.auth)
	assert.Equal(t, "ledger@example.com", c.e.From)
	assert.Equal(t, []string{"ops@example.com"}, c.e.To)
	assert.Equal(t, "Ledger reconciliation: 1 account(s) out of balance", c.e.Subject)
	assert.Contains(t, string(c.e.Text), "Account 2: balance 90, expected 100 (difference -10)")
	assert.Contains(t, string(c.e.Text), "2024-05-01 12:00:00")
}

func TestSendDiscrepancyAlert_Auth(t *testing.T) {
	cfg := alertConfig()
	cfg.SMTPUsername = "user"
	cfg.SMTPPassword = "pass"
	s, calls := newTestSender(cfg, nil)

	require.NoError(t, s.SendDiscrepancyAlert(discrepancies))
	require.Len(t, *calls, 1)
	assert.NotNil(t, (*calls)[0].auth)
}

func TestSendDiscrepancyAlert_Skipped(t *testing.T) {
	disabled := alertConfig()
	disabled.AlertEmail = ""
	s, calls := newTestSender(disabled, nil)
	assert.False(t, s.Enabled())
	require.NoError(t, s.SendDiscrepancyAlert(discrepancies))
	assert.Empty(t, *calls)

	s, calls = newTestSender(alertConfig(), nil)
	require.NoError(t, s.SendDiscrepancyAlert(nil))
	assert.Empty(t, *calls)
}

func TestSendDiscrepancyAlert_Failure(t *testing.T) {
	boom := errors.New("connection refused")
	s, _ := newTestSender(alertConfig(), boom)
	assert.ErrorIs(t, s.SendDiscrepancyAlert(discrepancies), boom)
}
