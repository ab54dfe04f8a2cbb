package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"internhub/internal/metrics"
	"internhub/internal/repository"
)

// ReconcileResult reports how many dangling rows a run removed.
type ReconcileResult struct {
	Applications  int64
	AppliedOffers int64
}

// Reconciler removes applications and applied-offer rows that point at deleted offers or users.
type Reconciler struct {
	store repository.Store
	log   *logrus.Logger
	cron  *cron.Cron
}

// NewReconciler creates a reconciler. Call Start to schedule it.
func NewReconciler(store repository.Store, log *logrus.Logger) *Reconciler {
	return &Reconciler{store: store, log: log}
}

// Run performs a single reconciliation pass inside one transaction.
func (r *Reconciler) Run(ctx context.Context) (ReconcileResult, error) {
	start := time.Now()
	var res ReconcileResult

	err := r.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		n, err := tx.Applications().DeleteOrphans(ctx)
		if err != nil {
			return fmt.Errorf("delete orphan applications: %w", err)
		}
		res.Applications = n

		n, err = tx.Users().DeleteDanglingAppliedOffers(ctx)
		if err != nil {
			return fmt.Errorf("delete dangling applied offers: %w", err)
		}
		res.AppliedOffers = n
		return nil
	})
	if err != nil {
		metrics.RecordReconcile(0, 0, time.Since(start), false)
		return ReconcileResult{}, err
	}

	metrics.RecordReconcile(res.Applications, res.AppliedOffers, time.Since(start), true)
	return res, nil
}

// Start schedules Run on the given cron schedule, for example "@every 1h".
func (r *Reconciler) Start(schedule string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		res, err := r.Run(ctx)
		if err != nil {
			r.log.WithError(err).Error("reconciliation failed")
			return
		}
		r.log.WithFields(logrus.Fields{
			"applications":   res.Applications,
			"applied_offers": res.AppliedOffers,
		}).Info("reconciliation finished")
	})
	if err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}

	r.cron = c
	c.Start()
	return nil
}

// Stop halts the schedule and waits for a running pass to finish.
func (r *Reconciler) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}
