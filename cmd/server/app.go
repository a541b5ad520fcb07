package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/sdko-org/vertical-padding/internal/cache"
	"github.com/sdko-org/vertical-padding/internal/config"
	"github.com/sdko-org/vertical-padding/internal/database"
	"github.com/sdko-org/vertical-padding/internal/handlers"
	"github.com/sdko-org/vertical-padding/internal/mapbox"
	"github.com/sdko-org/vertical-padding/internal/observability"
	"github.com/sdko-org/vertical-padding/internal/osm"
	"github.com/sdko-org/vertical-padding/internal/padding"
	"github.com/sdko-org/vertical-padding/internal/resolver"
	"github.com/sdko-org/vertical-padding/internal/runlog"
	"github.com/sdko-org/vertical-padding/internal/service"
	"github.com/sdko-org/vertical-padding/internal/storage"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// app holds the wired service and whatever must be released on exit.
type app struct {
	service *service.PaddingService
	ready   handlers.ReadinessCheck
	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// newApp wires the service from cfg. With dryRun the cache and run log live in
// memory and no database is opened.
func newApp(cfg *config.Config, logger *logrus.Logger, metrics *observability.Metrics, dryRun bool) (*app, error) {
	osmClient := osm.NewClient(logger, cfg.UpstreamTimeout, cfg.UserAgent)
	geocoder, err := newGeocoder(cfg, logger, osmClient)
	if err != nil {
		return nil, err
	}
	tags := osm.NewOverpass(osmClient, cfg.OverpassURL)
	res := resolver.New(logger, geocoder, tags, cfg.UpstreamTimeout, metrics)
	calc := padding.NewCalculator(cfg.Padding)

	a := &app{}
	var store cache.Store
	var runs runlog.Log

	if dryRun {
		store = cache.NewMemoryStore()
		runs = runlog.NewMemoryLog()
	} else {
		db, err := database.NewPostgresDB(logger, cfg.Postgres())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { return database.Close(db) })
		a.ready = func(ctx context.Context) error { return database.Ping(ctx, db) }
		store = cache.NewGormStore(logger, db)

		runs, err = newRunLog(cfg, logger, db, a)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	a.service = service.New(logger, store, res, calc, runs, clockwork.NewRealClock(), metrics)
	logger.WithFields(logrus.Fields{
		"geocoder": cfg.GeocoderProvider,
		"run_log":  runLogName(cfg, dryRun),
		"padding":  fmt.Sprintf("%+v", cfg.Padding),
	}).Info("Padding service ready")
	return a, nil
}

func newGeocoder(cfg *config.Config, logger *logrus.Logger, osmClient *osm.Client) (resolver.Geocoder, error) {
	switch cfg.GeocoderProvider {
	case config.GeocoderMapbox:
		return mapbox.NewClient(logger, cfg.MapboxToken, cfg.UpstreamTimeout), nil
	case config.GeocoderNominatim:
		return osm.NewNominatim(osmClient, cfg.NominatimURL), nil
	default:
		return nil, fmt.Errorf("unknown geocoder provider %q", cfg.GeocoderProvider)
	}
}

func newRunLog(cfg *config.Config, logger *logrus.Logger, db *gorm.DB, a *app) (runlog.Log, error) {
	switch cfg.RunLogBackend {
	case runlog.BackendPostgres:
		return runlog.NewGormLog(logger, db), nil
	case runlog.BackendS3:
		s3, err := storage.NewS3Storage(logger, cfg.S3())
		if err != nil {
			return nil, err
		}
		return runlog.NewS3Log(logger, s3, cfg.S3Prefix), nil
	case runlog.BackendKafka:
		kl := runlog.NewKafkaLog(logger, cfg.KafkaBrokers, cfg.KafkaRunsTopic)
		a.closers = append(a.closers, kl.Close)
		return kl, nil
	case runlog.BackendMemory:
		return runlog.NewMemoryLog(), nil
	default:
		return nil, fmt.Errorf("unknown run log backend %q", cfg.RunLogBackend)
	}
}

func runLogName(cfg *config.Config, dryRun bool) string {
	if dryRun {
		return runlog.BackendMemory
	}
	return cfg.RunLogBackend
}
