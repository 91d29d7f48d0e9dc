// Package reconcile checks that every account balance still equals its
// initial balance minus the fee-adjusted value of its recorded transactions.
package reconcile

import (
	"context"
	"fmt"

	"github.com/Dan9191/account-ledger/internal/models"
	"github.com/Dan9191/account-ledger/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Alerter is notified when a run finds discrepancies
type Alerter interface {
	SendDiscrepancyAlert(discrepancies []models.Discrepancy) error
}

type Job struct {
	store   repository.Querier
	alerter Alerter
	log     *logrus.Logger
}

// NewJob builds a reconciliation job. alerter may be nil.
func NewJob(store repository.Querier, alerter Alerter, log *logrus.Logger) *Job {
	return &Job{store: store, alerter: alerter, log: log}
}

// Run performs one reconciliation pass and returns what it found
func (j *Job) Run(ctx context.Context) ([]models.Discrepancy, error) {
	found, err := j.store.FindDiscrepancies(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconciliation failed: %w", err)
	}
	if len(found) == 0 {
		j.log.Debug("Reconciliation found no discrepancies")
		return nil, nil
	}

	for _, d := range found {
		j.log.WithFields(logrus.Fields{
			"account_number": d.AccountNumber,
			"balance":        d.Balance.String(),
			"expected":       d.Expected.String(),
		}).Error("Account balance does not match its transactions")
	}
	if j.alerter != nil {
		if err := j.alerter.SendDiscrepancyAlert(found); err != nil {
			return found, err
		}
	}
	return found, nil
}

// Schedule registers the job on a new cron scheduler using a standard
// five-field spec or a descriptor such as "@every 1h". The caller starts and
// stops the returned scheduler.
func Schedule(ctx context.Context, spec string, job *Job, log *logrus.Logger) (*cron.Cron, error) {
	logger := cron.PrintfLogger(log)
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))
	_, err := c.AddFunc(spec, func() {
		if _, err := job.Run(ctx); err != nil {
			log.WithError(err).Error("Reconciliation run failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reconciliation schedule %q: %w", spec, err)
	}
	return c, nil
}
