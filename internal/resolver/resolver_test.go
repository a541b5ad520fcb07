package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sdko-org/vertical-padding/internal/observability"
	"github.com/sdko-org/vertical-padding/internal/padding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockGeocoder struct {
	result []Location
	err    error
	block  bool
	calls  int
}

func (m *mockGeocoder) Geocode(ctx context.Context, _ string) ([]Location, error) {
	m.calls++
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.result, m.err
}

type mockTags struct {
	elements []Element
	err      error
	calls    int
	radius   int
	lat, lon float64
}

func (m *mockTags) BuildingsNear(_ context.Context, lat, lon float64, radius int) ([]Element, error) {
	m.calls++
	m.lat, m.lon, m.radius = lat, lon, radius
	return m.elements, m.err
}

func newTestResolver(g Geocoder, tags TagSource, timeout time.Duration) *Resolver {
	return New(observability.NewDiscardLogger(), g, tags, timeout, observability.NewUnregisteredMetrics())
}

// --- tests ---

func TestResolve_UsesFirstElement(t *testing.T) {
	geo := &mockGeocoder{result: []Location{{Lat: 40.7484, Lon: -73.9857}, {Lat: 1, Lon: 1}}}
	tags := &mockTags{elements: []Element{
		{ID: 1, Tags: map[string]string{"building": "office", "building:levels": "102"}},
		{ID: 2, Tags: map[string]string{"building": "residential", "building:levels": "3"}},
	}}

	meta, err := newTestResolver(geo, tags, time.Second).Resolve(context.Background(), "20 W 34th St, New York")
	require.NoError(t, err)

	assert.Equal(t, padding.BuildingMetadata{FloorCount: 102, IsOffice: true}, meta)
	assert.Equal(t, 40.7484, tags.lat)
	assert.Equal(t, -73.9857, tags.lon)
	assert.Equal(t, SearchRadiusMeters, tags.radius)
}

func TestResolve_NoElementsUsesDefaults(t *testing.T) {
	geo := &mockGeocoder{result: []Location{{Lat: 1, Lon: 2}}}
	tags := &mockTags{}

	meta, err := newTestResolver(geo, tags, time.Second).Resolve(context.Background(), "somewhere")
	require.NoError(t, err)

	assert.Equal(t, padding.BuildingMetadata{FloorCount: 5, IsOffice: false}, meta)
}

func TestResolve_ElementWithoutTags(t *testing.T) {
	geo := &mockGeocoder{result: []Location{{Lat: 1, Lon: 2}}}
	tags := &mockTags{elements: []Element{{ID: 9}}}

	meta, err := newTestResolver(geo, tags, time.Second).Resolve(context.Background(), "somewhere")
	require.NoError(t, err)
	assert.Equal(t, 5, meta.FloorCount)
}

func TestResolve_NoGeocodeCandidates(t *testing.T) {
	geo := &mockGeocoder{}
	tags := &mockTags{}

	_, err := newTestResolver(geo, tags, time.Second).Resolve(context.Background(), "nowhere at all")
	require.Error(t, err)

	assert.True(t, errors.Is(err, padding.ErrGeocode))
	assert.Equal(t, 0, tags.calls, "tag source must not be called without a location")
}

func TestResolve_GeocoderError(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("connection refused")}

	_, err := newTestResolver(geo, &mockTags{}, time.Second).Resolve(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, padding.ErrUpstream))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestResolve_TagSourceError(t *testing.T) {
	geo := &mockGeocoder{result: []Location{{Lat: 1, Lon: 2}}}
	tags := &mockTags{err: errors.New("overpass returned 504")}

	_, err := newTestResolver(geo, tags, time.Second).Resolve(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, padding.ErrUpstream))
	assert.False(t, errors.Is(err, padding.ErrGeocode))
}

func TestResolve_TimeoutIsUpstreamError(t *testing.T) {
	geo := &mockGeocoder{block: true}

	start := time.Now()
	_, err := newTestResolver(geo, &mockTags{}, 20*time.Millisecond).Resolve(context.Background(), "x")
	require.Error(t, err)

	assert.True(t, errors.Is(err, padding.ErrUpstream))
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNew_DefaultTimeout(t *testing.T) {
	r := newTestResolver(&mockGeocoder{}, &mockTags{}, 0)
	assert.Equal(t, DefaultTimeout, r.timeout)
}
