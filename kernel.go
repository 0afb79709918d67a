package mandel

import (
	"fmt"

	"github.com/gogpu/mandel/internal/wide"
)

// Kernel computes escape-time samples for one job. It is immutable after
// construction and safe for concurrent use.
type Kernel struct {
	params FractalParameters
	plane  Plane

	// Broadcast constants for the wide path.
	xDivide   wide.F64x8
	startReal wide.F64x8
	endReal   wide.F64x8
	bailout   wide.F64x8
	precision wide.F64x8
	maxIter   wide.I64x8
}

// NewKernel validates params and geom and prepares a kernel for them.
// Only the image size of geom is used; the tile decomposition is not
// validated here.
func NewKernel(params FractalParameters, geom GridGeometry) (*Kernel, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	plane, err := NewPlane(params, geom)
	if err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}
	return &Kernel{
		params:    params,
		plane:     plane,
		xDivide:   wide.SplatF64(plane.xDivide),
		startReal: wide.SplatF64(params.StartReal),
		endReal:   wide.SplatF64(params.EndReal),
		bailout:   wide.SplatF64(params.BailoutRadius),
		precision: wide.SplatF64(params.PeriodicityPrecision2),
		maxIter:   wide.SplatI64(params.MaxIterations),
	}, nil
}

// Params returns the fractal parameters the kernel iterates with.
func (k *Kernel) Params() FractalParameters { return k.params }

// Plane returns the pixel-to-plane mapping of the kernel.
func (k *Kernel) Plane() Plane { return k.plane }

// Batch computes the samples of pixels (x+0, y) … (x+7, y) with all eight
// lanes iterating in lockstep. Lanes past the right image edge are mapped by
// extrapolation; callers discard them.
func (k *Kernel) Batch(x, y uint64, out *[BatchSize]Sample) {
	one := wide.SplatF64(1)
	tx := wide.RampF64(x).Div(k.xDivide)
	cr := one.Sub(tx).Mul(k.startReal).Add(tx.Mul(k.endReal))
	ci := wide.SplatF64(k.plane.Imag(y))

	zr, zi := cr, ci
	var or, oi, mag2 wide.F64x8
	var iters wide.I64x8
	active := wide.MaskAll

	maxIter := k.params.MaxIterations
	period := k.params.PeriodicitySavePeriod

	n := int64(1)
	for ; n < maxIter && active.Any(); n++ {
		m := zr.Mul(zr).Add(zi.Mul(zi))
		mag2 = wide.Select(active, m, mag2)
		escaped := active.AndNot(m.Less(k.bailout))
		iters = wide.SelectI64(escaped, wide.SplatI64(n), iters)
		active = active.AndNot(escaped)

		if period > 0 && uint64(n-1)%period == 0 {
			or = wide.Select(active, zr, or)
			oi = wide.Select(active, zi, oi)
		}

		// z = z² + c, with re(z²) = (zr+zi)(zr-zi) and im(z²) = (zr+zr)zi
		nzr := zr.Add(zi).Mul(zr.Sub(zi)).Add(cr)
		nzi := zr.Add(zr).Mul(zi).Add(ci)
		zr = wide.Select(active, nzr, zr)
		zi = wide.Select(active, nzi, zi)

		if period > 0 {
			dr := zr.Sub(or)
			di := zi.Sub(oi)
			d := dr.Mul(dr).Add(di.Mul(di))
			periodic := active.And(d.Less(k.precision))
			iters = wide.SelectI64(periodic, k.maxIter, iters)
			active = active.AndNot(periodic)
		}
	}
	iters = wide.SelectI64(active, wide.SplatI64(min(n, maxIter)), iters)

	for i := range out {
		out[i] = Sample{
			CReal:           cr[i],
			CImag:           ci[i],
			Iterations:      iters[i],
			FinalMagnitude2: mag2[i],
		}
	}
}

// BatchScalar computes the same samples as Batch one lane at a time.
// It is the reference the wide path is tested against.
func (k *Kernel) BatchScalar(x, y uint64, out *[BatchSize]Sample) {
	ci := k.plane.Imag(y)
	for i := range out {
		out[i] = k.Iterate(k.plane.Real(x+uint64(i)), ci)
	}
}

// Point computes the sample of a single pixel.
func (k *Kernel) Point(x, y uint64) Sample {
	return k.Iterate(k.plane.Map(x, y))
}

// Iterate runs the orbit of c = cr + ci·i with the kernel's iteration
// settings. The first iteration is folded in: z starts at c with count 1.
func (k *Kernel) Iterate(cr, ci float64) Sample {
	maxIter := k.params.MaxIterations
	period := k.params.PeriodicitySavePeriod
	bailout := k.params.BailoutRadius
	precision := k.params.PeriodicityPrecision2

	s := Sample{CReal: cr, CImag: ci}
	zr, zi := cr, ci
	var or, oi float64

	n := int64(1)
	for ; n < maxIter; n++ {
		m := float64(zr*zr) + float64(zi*zi)
		s.FinalMagnitude2 = m
		if !(m < bailout) {
			s.Iterations = n
			return s
		}

		if period > 0 && uint64(n-1)%period == 0 {
			or, oi = zr, zi
		}

		zr, zi = float64((zr+zi)*(zr-zi))+cr, float64((zr+zr)*zi)+ci

		if period > 0 {
			dr, di := zr-or, zi-oi
			if float64(dr*dr)+float64(di*di) < precision {
				s.Iterations = maxIter
				return s
			}
		}
	}
	s.Iterations = min(n, maxIter)
	return s
}
