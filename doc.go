// Package mandel computes escape-time values of the Mandelbrot set and
// describes large, tiled rendering jobs that can be checkpointed and resumed.
//
// # Overview
//
// A rendering job is the aggregate of three records:
//
//   - FractalParameters: plane bounds, iteration limit, bailout and
//     periodicity settings.
//   - GridGeometry: image size and its two-level decomposition into tiles and
//     thread-tiles.
//   - ProgressState: the next tile to dispatch plus bit-packed completion
//     arrays for tiles and thread-tiles.
//
// The records are persisted by package checkpoint.
//
// # Quick Start
//
//	params := mandel.DefaultFractalParameters()
//	geom := mandel.GridGeometry{
//	    ImageWidth: 1920, ImageHeight: 1080,
//	    TileGridWidth: 4, TileGridHeight: 4,
//	    ThreadGridWidth: 2, ThreadGridHeight: 2,
//	}
//
//	k, err := mandel.NewKernel(params, geom)
//	if err != nil {
//	    return err
//	}
//
//	var out [mandel.BatchSize]mandel.Sample
//	k.Batch(960, 540, &out)
//
// # Kernel
//
// The iteration kernel processes BatchSize (8) horizontally adjacent pixels in
// lockstep. Kernel.Batch is the wide implementation built on fixed-size lane
// arrays; Kernel.BatchScalar iterates each lane on its own and serves as the
// reference. Both produce bit-identical samples, and a pixel's sample does not
// depend on which batch it was computed in.
//
// # Coordinate System
//
//   - Pixel (0,0) maps to (StartReal, StartImag)
//   - Pixel (ImageWidth-1, ImageHeight-1) maps to (EndReal, EndImag)
//   - Tiles and thread-tiles are indexed in row-major order
//
// # Rendering
//
// Render drives a job to completion on a worker pool, one work item per
// thread-tile, and reports completed tiles through a hook where checkpoints
// can be written while no worker is running.
package mandel

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
