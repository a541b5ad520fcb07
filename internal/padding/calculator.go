// Package padding holds the building metadata model, the padding formula and
// the error classes shared by the rest of the service.
package padding

import (
	"fmt"
	"math"
)

// Constants are the seconds added by each term of the padding formula.
type Constants struct {
	Base        int `yaml:"base"`
	PerFloor    int `yaml:"per_floor"`
	OfficeBonus int `yaml:"office_bonus"`
	PeakBonus   int `yaml:"peak_bonus"`
}

// DefaultConstants returns the production padding constants.
func DefaultConstants() Constants {
	return Constants{
		Base:        60,
		PerFloor:    10,
		OfficeBonus: 30,
		PeakBonus:   20,
	}
}

// Validate rejects negative constants and constants above MaxConstantSec.
func (c Constants) Validate() error {
	for _, v := range []int{c.Base, c.PerFloor, c.OfficeBonus, c.PeakBonus} {
		if v < 0 || v > MaxConstantSec {
			return fmt.Errorf("padding constants must be within [0, %d]: %+v", MaxConstantSec, c)
		}
	}
	return nil
}

// Padding is the calculator output.
type Padding struct {
	VerticalPad int
	TotalSec    int
}

// Calculator applies the padding formula with a fixed set of constants.
type Calculator struct {
	constants Constants
}

// NewCalculator creates a Calculator using the given constants.
func NewCalculator(c Constants) *Calculator {
	return &Calculator{constants: c}
}

// Constants returns the constants the calculator was built with.
func (c *Calculator) Constants() Constants {
	return c.constants
}

// Compute returns the vertical padding for a building and the padded total.
// Inputs that would push either value out of int range are ErrInvalidInput.
func (c *Calculator) Compute(meta BuildingMetadata, horizontalSec int, isPeak bool) (Padding, error) {
	if horizontalSec < 0 {
		return Padding{}, fmt.Errorf("%w: horizontal_time_sec must be >= 0, got %d", ErrInvalidInput, horizontalSec)
	}
	if meta.FloorCount < 0 || meta.FloorCount > MaxFloorCount {
		return Padding{}, fmt.Errorf("%w: floor count must be within [0, %d], got %d", ErrInvalidInput, MaxFloorCount, meta.FloorCount)
	}

	pad, ok := mulAdd(c.constants.Base, c.constants.PerFloor, meta.FloorCount)
	if ok && meta.IsOffice {
		pad, ok = add(pad, c.constants.OfficeBonus)
	}
	if ok && isPeak {
		pad, ok = add(pad, c.constants.PeakBonus)
	}
	if !ok || pad < 0 {
		return Padding{}, fmt.Errorf("%w: padding constants out of range: %+v", ErrInvalidInput, c.constants)
	}

	total, ok := add(horizontalSec, pad)
	if !ok {
		return Padding{}, fmt.Errorf("%w: horizontal_time_sec too large: %d", ErrInvalidInput, horizontalSec)
	}

	return Padding{
		VerticalPad: pad,
		TotalSec:    total,
	}, nil
}

// add returns a+b for non-negative operands, or false on overflow.
func add(a, b int) (int, bool) {
	if a < 0 || b < 0 || a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

// mulAdd returns base+factor*n for non-negative operands, or false on overflow.
func mulAdd(base, factor, n int) (int, bool) {
	if factor < 0 || n < 0 {
		return 0, false
	}
	if n != 0 && factor > math.MaxInt/n {
		return 0, false
	}
	return add(base, factor*n)
}
