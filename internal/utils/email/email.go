package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/Dan9191/account-ledger/internal/config"
	"github.com/Dan9191/account-ledger/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
	now    func() time.Time
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send:   func(e *email.Email, addr string, auth smtp.Auth) error { return e.Send(addr, auth) },
		now:    time.Now,
	}
}

// Enabled reports whether SMTP and an alert recipient are configured
func (s *Sender) Enabled() bool {
	return s.cfg.SMTPHost != "" && s.cfg.AlertEmail != ""
}

// SendDiscrepancyAlert mails the list of accounts whose balance does not
// match their transaction log
func (s *Sender) SendDiscrepancyAlert(discrepancies []models.Discrepancy) error {
	if !s.Enabled() || len(discrepancies) == 0 {
		return nil
	}

	e := s.discrepancyAlert(discrepancies)
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", s.cfg.AlertEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.AlertEmail, e.Subject)
	return nil
}

func (s *Sender) discrepancyAlert(discrepancies []models.Discrepancy) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.AlertEmail}
	e.Subject = fmt.Sprintf("Ledger reconciliation: %d account(s) out of balance", len(discrepancies))

	var body strings.Builder
	fmt.Fprintf(&body, "Reconciliation run at %s found accounts whose balance differs from\n", s.now().UTC().Format("2006-01-02 15:04:05"))
	body.WriteString("their initial balance minus the fee-adjusted value of their transactions.\n\n")
	for _, d := range discrepancies {
		fmt.Fprintf(&body, "Account %d: balance %s, expected %s (difference %s)\n",
			d.AccountNumber, d.Balance.String(), d.Expected.String(), d.Balance.Sub(d.Expected).String())
	}
	body.WriteString("\nLedger Service")
	e.Text = []byte(body.String())
	return e
}
