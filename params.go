package mandel

import (
	"fmt"
	"math"
)

// Bounds is the rectangle of the complex plane covered by an image.
// Start maps to the first pixel of an axis, End to the last one; End may be
// smaller than Start to flip an axis.
type Bounds struct {
	StartReal, EndReal float64
	StartImag, EndImag float64
}

// FractalParameters describes which part of the set is rendered and how
// precisely. A job treats it as immutable; changing it invalidates any
// progress recorded for that job.
type FractalParameters struct {
	// Left-most real in image
	StartReal float64
	// Right-most real in image
	EndReal float64
	// Top-most imaginary in image
	StartImag float64
	// Bottom-most imaginary in image
	EndImag float64

	// MaxIterations bounds every orbit; iteration counts lie in [0, MaxIterations].
	MaxIterations int64

	// BailoutRadius is compared against the squared magnitude of z.
	BailoutRadius float64

	// PeriodicityPrecision2 is the squared distance below which an orbit is
	// considered to have returned to its reference point.
	PeriodicityPrecision2 float64

	// PeriodicitySavePeriod is the number of iterations between reference
	// point captures. Zero disables periodicity checking.
	PeriodicitySavePeriod uint64
}

// DefaultFractalParameters returns the full-set view used by the demo:
// a 16:9 window centred on the origin.
func DefaultFractalParameters() FractalParameters {
	return FractalParameters{
		StartReal:             -20.0 / 9.0,
		EndReal:               20.0 / 9.0,
		StartImag:             1.25,
		EndImag:               -1.25,
		MaxIterations:         1000,
		BailoutRadius:         1 << 8,
		PeriodicityPrecision2: 1e-14,
		PeriodicitySavePeriod: 200,
	}
}

// Bounds returns the plane rectangle of p.
func (p FractalParameters) Bounds() Bounds {
	return Bounds{
		StartReal: p.StartReal,
		EndReal:   p.EndReal,
		StartImag: p.StartImag,
		EndImag:   p.EndImag,
	}
}

// PeriodicityEnabled reports whether orbits are checked for cycles.
func (p FractalParameters) PeriodicityEnabled() bool {
	return p.PeriodicitySavePeriod > 0
}

// Validate checks that p describes a usable mapping and iteration limit.
func (p FractalParameters) Validate() error {
	for _, v := range [...]float64{p.StartReal, p.EndReal, p.StartImag, p.EndImag} {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: NaN plane bound", ErrInvalidParameters)
		}
	}
	if p.StartReal == p.EndReal {
		return fmt.Errorf("%w: startReal == endReal (%g)", ErrDegenerateGeometry, p.StartReal)
	}
	if p.StartImag == p.EndImag {
		return fmt.Errorf("%w: startImag == endImag (%g)", ErrDegenerateGeometry, p.StartImag)
	}
	if p.MaxIterations < 0 {
		return fmt.Errorf("%w: maxIterations %d is negative", ErrInvalidParameters, p.MaxIterations)
	}
	return nil
}

// Equal reports whether p and other are identical field by field.
// Floats are compared by bit pattern so a loaded record equals the saved one.
func (p FractalParameters) Equal(other FractalParameters) bool {
	same := func(a, b float64) bool { return math.Float64bits(a) == math.Float64bits(b) }
	return same(p.StartReal, other.StartReal) &&
		same(p.EndReal, other.EndReal) &&
		same(p.StartImag, other.StartImag) &&
		same(p.EndImag, other.EndImag) &&
		p.MaxIterations == other.MaxIterations &&
		same(p.BailoutRadius, other.BailoutRadius) &&
		same(p.PeriodicityPrecision2, other.PeriodicityPrecision2) &&
		p.PeriodicitySavePeriod == other.PeriodicitySavePeriod
}
