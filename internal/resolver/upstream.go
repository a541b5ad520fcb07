package resolver

import "context"

// Location is one geocoding candidate.
type Location struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// Geocoder turns an address into zero or more candidate locations, best first.
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]Location, error)
}

// Element is one map feature returned by a TagSource.
type Element struct {
	Type string
	ID   int64
	Tags map[string]string
}

// TagSource returns building features within radiusMeters of a point.
type TagSource interface {
	BuildingsNear(ctx context.Context, lat, lon float64, radiusMeters int) ([]Element, error)
}
