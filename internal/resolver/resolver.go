// Package resolver fetches building metadata for an address from a geocoder
// and a building tag source. It is only called on a cache miss and writes
// nothing itself.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sdko-org/vertical-padding/internal/observability"
	"github.com/sdko-org/vertical-padding/internal/padding"
	"github.com/sirupsen/logrus"
)

// SearchRadiusMeters is how far from the geocoded point buildings are searched.
const SearchRadiusMeters = 10

// DefaultTimeout bounds each outbound call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Resolver resolves addresses to building metadata.
type Resolver struct {
	geocoder Geocoder
	tags     TagSource
	timeout  time.Duration
	metrics  *observability.Metrics
	log      *logrus.Entry
}

func New(logger *logrus.Logger, geocoder Geocoder, tags TagSource, timeout time.Duration, metrics *observability.Metrics) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		geocoder: geocoder,
		tags:     tags,
		timeout:  timeout,
		metrics:  metrics,
		log:      logger.WithField("component", "building_resolver"),
	}
}

// Resolve geocodes address and reads the tags of the first building found
// near it. Only the first returned element is considered.
//
// Errors wrap padding.ErrGeocode when the geocoder has no candidate and
// padding.ErrUpstream when either upstream fails or times out.
func (r *Resolver) Resolve(ctx context.Context, address string) (padding.BuildingMetadata, error) {
	log := r.log.WithField("address", address)

	loc, err := r.geocode(ctx, address)
	if err != nil {
		log.WithError(err).Warn("Geocoding failed")
		return padding.BuildingMetadata{}, err
	}

	elements, err := r.buildingsNear(ctx, loc)
	if err != nil {
		log.WithError(err).Warn("Building tag lookup failed")
		return padding.BuildingMetadata{}, err
	}

	var tags map[string]string
	if len(elements) > 0 {
		tags = elements[0].Tags
	}
	meta := Normalize(tags)

	log.WithFields(logrus.Fields{
		"lat":         loc.Lat,
		"lon":         loc.Lon,
		"elements":    len(elements),
		"floor_count": meta.FloorCount,
		"is_office":   meta.IsOffice,
	}).Info("Resolved building metadata")

	return meta, nil
}

func (r *Resolver) geocode(ctx context.Context, address string) (Location, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	candidates, err := r.geocoder.Geocode(ctx, address)
	r.metrics.UpstreamLatency.WithLabelValues("geocoder").Observe(time.Since(start).Seconds())
	if err != nil {
		return Location{}, classify("geocoder", err)
	}
	if len(candidates) == 0 {
		return Location{}, fmt.Errorf("%w: no location found for %q", padding.ErrGeocode, address)
	}
	return candidates[0], nil
}

func (r *Resolver) buildingsNear(ctx context.Context, loc Location) ([]Element, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	elements, err := r.tags.BuildingsNear(ctx, loc.Lat, loc.Lon, SearchRadiusMeters)
	r.metrics.UpstreamLatency.WithLabelValues("tags").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, classify("building tag source", err)
	}
	return elements, nil
}

// classify wraps an upstream failure as ErrUpstream unless it is already
// classified.
func classify(service string, err error) error {
	if errors.Is(err, padding.ErrGeocode) || errors.Is(err, padding.ErrUpstream) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s timed out: %v", padding.ErrUpstream, service, err)
	}
	return fmt.Errorf("%w: %s: %v", padding.ErrUpstream, service, err)
}
