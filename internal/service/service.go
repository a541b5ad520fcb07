// Package service runs one padding request end to end: key derivation, cache
// lookup, resolution on a miss, computation and the run log append.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sdko-org/vertical-padding/internal/addresskey"
	"github.com/sdko-org/vertical-padding/internal/cache"
	"github.com/sdko-org/vertical-padding/internal/observability"
	"github.com/sdko-org/vertical-padding/internal/padding"
	"github.com/sdko-org/vertical-padding/internal/runlog"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// BuildingResolver looks up building metadata for an address. Called only on
// a cache miss.
type BuildingResolver interface {
	Resolve(ctx context.Context, address string) (padding.BuildingMetadata, error)
}

type Request struct {
	Address       string
	HorizontalSec int
	IsPeak        bool
}

type Result struct {
	FloorCount  int  `json:"floor_count"`
	IsOffice    bool `json:"is_office"`
	VerticalPad int  `json:"vertical_pad"`
	TotalSec    int  `json:"total_sec"`
}

type PaddingService struct {
	store    cache.Store
	resolver BuildingResolver
	calc     *padding.Calculator
	runs     runlog.Log
	clock    clockwork.Clock
	newID    func() string
	metrics  *observability.Metrics
	log      *logrus.Entry

	flights singleflight.Group
}

func New(
	logger *logrus.Logger,
	store cache.Store,
	resolver BuildingResolver,
	calc *padding.Calculator,
	runs runlog.Log,
	clock clockwork.Clock,
	metrics *observability.Metrics,
) *PaddingService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &PaddingService{
		store:    store,
		resolver: resolver,
		calc:     calc,
		runs:     runs,
		clock:    clock,
		newID:    uuid.NewString,
		metrics:  metrics,
		log:      logger.WithField("component", "padding_service"),
	}
}

// Handle computes the padding for req. Failures before the log append leave
// no run behind; a failed resolution also leaves the cache untouched.
func (s *PaddingService) Handle(ctx context.Context, req Request) (Result, error) {
	res, err := s.handle(ctx, req)
	s.metrics.Requests.WithLabelValues(outcome(err)).Inc()
	return res, err
}

func (s *PaddingService) handle(ctx context.Context, req Request) (Result, error) {
	if req.HorizontalSec < 0 || req.HorizontalSec > padding.MaxHorizontalSec {
		return Result{}, fmt.Errorf("%w: horizontal_time_sec must be within [0, %d], got %d",
			padding.ErrInvalidInput, padding.MaxHorizontalSec, req.HorizontalSec)
	}
	key, err := addresskey.KeyFor(req.Address)
	if err != nil {
		return Result{}, err
	}

	meta, err := s.metadata(ctx, key, req.Address)
	if err != nil {
		return Result{}, err
	}

	pad, err := s.calc.Compute(meta, req.HorizontalSec, req.IsPeak)
	if err != nil {
		return Result{}, err
	}

	// A caller that went away gets no run.
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("request aborted: %w", err)
	}

	run := padding.Run{
		ID:            s.newID(),
		Address:       req.Address,
		HorizontalSec: req.HorizontalSec,
		FloorCount:    meta.FloorCount,
		IsOffice:      meta.IsOffice,
		VerticalPad:   pad.VerticalPad,
		TotalSec:      pad.TotalSec,
		Timestamp:     s.clock.Now().UTC(),
	}
	if err := s.runs.Append(ctx, run); err != nil {
		if !errors.Is(err, padding.ErrStorage) {
			err = fmt.Errorf("%w: %v", padding.ErrStorage, err)
		}
		return Result{}, err
	}
	s.metrics.RunsLogged.Inc()
	s.metrics.VerticalPad.Observe(float64(pad.VerticalPad))

	s.log.WithFields(logrus.Fields{
		"run_id":       run.ID,
		"floor_count":  run.FloorCount,
		"is_office":    run.IsOffice,
		"is_peak":      req.IsPeak,
		"vertical_pad": run.VerticalPad,
		"total_sec":    run.TotalSec,
	}).Info("Padding computed")

	return Result{
		FloorCount:  meta.FloorCount,
		IsOffice:    meta.IsOffice,
		VerticalPad: pad.VerticalPad,
		TotalSec:    pad.TotalSec,
	}, nil
}

// metadata returns the cached metadata for key, resolving and caching it on a
// miss. Concurrent misses for one key share a single resolution, which runs
// detached from the caller so an aborted first caller does not fail the rest.
func (s *PaddingService) metadata(ctx context.Context, key addresskey.Key, address string) (padding.BuildingMetadata, error) {
	meta, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return padding.BuildingMetadata{}, wrapStorage(err)
	}
	if ok {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return meta, nil
	}
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()

	detached := context.WithoutCancel(ctx)
	ch := s.flights.DoChan(key.String(), func() (interface{}, error) {
		return s.resolveAndStore(detached, key, address)
	})

	select {
	case <-ctx.Done():
		return padding.BuildingMetadata{}, fmt.Errorf("request aborted: %w", ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return padding.BuildingMetadata{}, r.Err
		}
		return r.Val.(padding.BuildingMetadata), nil
	}
}

func (s *PaddingService) resolveAndStore(ctx context.Context, key addresskey.Key, address string) (padding.BuildingMetadata, error) {
	start := s.clock.Now()
	resolved, err := s.resolver.Resolve(ctx, address)
	s.metrics.ResolveDuration.Observe(s.clock.Since(start).Seconds())
	if err != nil {
		s.metrics.Resolutions.WithLabelValues(outcome(err)).Inc()
		return padding.BuildingMetadata{}, err
	}
	s.metrics.Resolutions.WithLabelValues("ok").Inc()

	stored, err := s.store.PutIfAbsent(ctx, key, resolved)
	if err != nil {
		return padding.BuildingMetadata{}, wrapStorage(err)
	}
	if stored != resolved {
		s.log.WithField("address", address).Debug("Another writer cached this address first")
	}
	return stored, nil
}

func wrapStorage(err error) error {
	if errors.Is(err, padding.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %v", padding.ErrStorage, err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, padding.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, padding.ErrGeocode):
		return "geocode_error"
	case errors.Is(err, padding.ErrUpstream):
		return "upstream_error"
	case errors.Is(err, padding.ErrStorage):
		return "storage_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "aborted"
	default:
		return "error"
	}
}
