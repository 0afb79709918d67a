package mandel

import "fmt"

// MapPixel maps pixel (x, y) of a width×height image to a point of the
// complex plane by linear interpolation between the bounds:
//
//	re = (1 - x/(width-1))*StartReal + (x/(width-1))*EndReal
//
// and likewise for the imaginary part. Images one pixel wide or tall have no
// interpolation divisor and yield ErrDegenerateGeometry.
func MapPixel(x, y, width, height uint64, b Bounds) (re, im float64, err error) {
	pl, err := newPlane(width, height, b)
	if err != nil {
		return 0, 0, err
	}
	re, im = pl.Map(x, y)
	return re, im, nil
}

// Plane is a validated pixel-to-plane mapping with its divisors cached.
type Plane struct {
	bounds  Bounds
	xDivide float64 // width - 1
	yDivide float64 // height - 1
}

// NewPlane builds the mapping for an image described by geom showing the
// region described by params.
func NewPlane(params FractalParameters, geom GridGeometry) (Plane, error) {
	return newPlane(geom.ImageWidth, geom.ImageHeight, params.Bounds())
}

func newPlane(width, height uint64, b Bounds) (Plane, error) {
	if width <= 1 || height <= 1 {
		return Plane{}, fmt.Errorf("%w: image %dx%d", ErrDegenerateGeometry, width, height)
	}
	return Plane{
		bounds:  b,
		xDivide: float64(width - 1),
		yDivide: float64(height - 1),
	}, nil
}

// Map returns the plane coordinate of pixel (x, y).
func (p Plane) Map(x, y uint64) (re, im float64) {
	return p.Real(x), p.Imag(y)
}

// Real returns the real coordinate of pixel column x.
func (p Plane) Real(x uint64) float64 {
	return lerp(float64(x)/p.xDivide, p.bounds.StartReal, p.bounds.EndReal)
}

// Imag returns the imaginary coordinate of pixel row y.
func (p Plane) Imag(y uint64) float64 {
	return lerp(float64(y)/p.yDivide, p.bounds.StartImag, p.bounds.EndImag)
}

// Bounds returns the plane rectangle p maps onto.
func (p Plane) Bounds() Bounds {
	return p.bounds
}

// lerp is (1-t)*a + t*b with each product rounded on its own, matching the
// lane-wise evaluation in the wide kernel.
func lerp(t, a, b float64) float64 {
	return float64((1-t)*a) + float64(t*b)
}
