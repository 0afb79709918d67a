package mandel

// BatchSize is the number of horizontally adjacent pixels the kernel
// computes per call.
const BatchSize = 8

// Sample is the result of iterating one point of the plane.
type Sample struct {
	// CReal and CImag are the iterated point c.
	CReal float64
	CImag float64

	// Iterations is the iteration count at termination, in [0, MaxIterations].
	// Points that never escape, or that were found to be periodic, report
	// MaxIterations.
	Iterations int64

	// FinalMagnitude2 is |z|² at the last bailout check before the lane
	// stopped iterating.
	FinalMagnitude2 float64
}

// Inside reports whether the sample is classified as a member of the set.
func (s Sample) Inside(maxIterations int64) bool {
	return s.Iterations >= maxIterations
}
