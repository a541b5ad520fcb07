package padding

import "errors"

// Error classes surfaced by the padding workflow. Components wrap one of these
// with context; callers classify with errors.Is.
var (
	// ErrInvalidInput marks bad or missing caller input. Never retried.
	ErrInvalidInput = errors.New("invalid input")
	// ErrGeocode marks an address the geocoder could not place.
	ErrGeocode = errors.New("geocode failed")
	// ErrUpstream marks an unreachable, failing or timed out external service.
	ErrUpstream = errors.New("upstream error")
	// ErrStorage marks a failed cache or run log operation.
	ErrStorage = errors.New("storage error")
)
