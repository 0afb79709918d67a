package mandel

import "errors"

// Sentinel errors for job records and plane mapping.
var (
	// ErrDegenerateGeometry is returned when a plane mapping would divide by
	// zero: an image dimension of at most one pixel, or equal start and end
	// bounds on an axis.
	ErrDegenerateGeometry = errors.New("mandel: degenerate plane mapping")

	// ErrInvalidGeometry is returned when a grid does not divide evenly into
	// tiles and thread-tiles, or has a zero dimension.
	ErrInvalidGeometry = errors.New("mandel: invalid grid geometry")

	// ErrInvalidParameters is returned for fractal parameters that cannot be
	// iterated (negative iteration limit, NaN bounds).
	ErrInvalidParameters = errors.New("mandel: invalid fractal parameters")

	// ErrInconsistentProgress is returned when a progress record's counts do
	// not match the grid geometry it is used with.
	ErrInconsistentProgress = errors.New("mandel: progress does not match geometry")
)
