package padding

import "time"

// DefaultFloorCount is used whenever a building carries no usable level tag.
const DefaultFloorCount = 5

// MaxFloorCount is the tallest building the formula accepts. Level tags above
// it are treated as unusable.
const MaxFloorCount = 500

// MaxHorizontalSec bounds the caller's horizontal estimate (one week).
const MaxHorizontalSec = 7 * 24 * 60 * 60

// MaxConstantSec bounds each padding constant (one day).
const MaxConstantSec = 24 * 60 * 60

// BuildingMetadata is the normalized description of a destination building.
type BuildingMetadata struct {
	FloorCount int  `json:"floor_count"`
	IsOffice   bool `json:"is_office"`
}

// Run is one logged padding computation. It keeps the raw address and a copy of
// the metadata that was used so old runs stay readable.
type Run struct {
	ID            string    `json:"id"`
	Address       string    `json:"address"`
	HorizontalSec int       `json:"horizontal_sec"`
	FloorCount    int       `json:"floor_count"`
	IsOffice      bool      `json:"is_office"`
	VerticalPad   int       `json:"vertical_pad"`
	TotalSec      int       `json:"total_sec"`
	Timestamp     time.Time `json:"ts"`
}
