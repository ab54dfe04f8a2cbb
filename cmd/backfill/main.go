// Command backfill derives the work type, payment kind, stipend and duration
// bucket of offers stored before those facets existed.
package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"internhub/internal/config"
	"internhub/internal/db"
	"internhub/internal/logging"
	"internhub/internal/offerfacet"
	"internhub/internal/repository"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report the offers that would change without writing them")
	flag.Parse()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := db.Migrate(gormDB, false, log); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	updated, err := backfill(context.Background(), repository.NewStore(gormDB).Offers(), *dryRun, log)
	if err != nil {
		log.WithError(err).Fatal("Backfill failed")
	}
	log.WithFields(logrus.Fields{"updated": updated, "dry_run": *dryRun}).Info("Backfill completed")
}

func backfill(ctx context.Context, offers repository.OfferRepository, dryRun bool, log *logrus.Logger) (int, error) {
	pending, err := offers.ListMissingFacets(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range pending {
		offer := &pending[i]
		if !offerfacet.Apply(offer) {
			continue
		}
		log.WithFields(logrus.Fields{
			"offer_id":        offer.ID.String(),
			"type":            offer.Type,
			"payment_kind":    offer.PaymentKind,
			"duration_bucket": offer.DurationBucket,
		}).Debug("facets derived")
		if !dryRun {
			if err := offers.Update(ctx, offer); err != nil {
				return updated, err
			}
		}
		updated++
	}
	return updated, nil
}
