package mandel

import (
	"context"
	"fmt"

	"github.com/gogpu/mandel/internal/parallel"
)

// Job is one rendering job: what to render, how the image is divided, and
// how far rendering has progressed.
type Job struct {
	Params   FractalParameters
	Geometry GridGeometry

	// Progress may be nil for a fresh job; Render then allocates it.
	Progress *ProgressState
}

// Validate checks the parameters, the geometry and, if present, that the
// progress matches the geometry.
func (j *Job) Validate() error {
	if err := j.Params.Validate(); err != nil {
		return err
	}
	if err := j.Geometry.Validate(); err != nil {
		return err
	}
	if j.Progress != nil {
		return j.Progress.CheckConsistency(j.Geometry)
	}
	return nil
}

// SampleSink receives rendered samples one row segment at a time: row[i] is
// the sample of pixel (x+i, y). Segments of different thread-tiles may be
// delivered concurrently; a segment's slice is only valid during the call.
type SampleSink interface {
	Samples(x, y uint64, row []Sample)
}

// SampleSinkFunc adapts a function to SampleSink.
type SampleSinkFunc func(x, y uint64, row []Sample)

// Samples calls f(x, y, row).
func (f SampleSinkFunc) Samples(x, y uint64, row []Sample) { f(x, y, row) }

// Render computes every incomplete thread-tile of job and delivers the
// samples to sink. Tiles are processed one at a time in index order
// starting at the first incomplete one; the thread-tiles of a tile run
// concurrently on a worker pool.
//
// After each tile Render marks it complete, advances CurrentTile and calls
// the tile hook, if any. When ctx is canceled Render stops at the next row
// boundary and returns ctx.Err(); thread-tiles finished until then stay
// marked, so a later Render resumes where this one stopped.
func Render(ctx context.Context, job *Job, sink SampleSink, opts ...RenderOption) error {
	o := defaultRenderOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := job.Validate(); err != nil {
		return err
	}
	kernel, err := NewKernel(job.Params, job.Geometry)
	if err != nil {
		return err
	}

	pool := parallel.NewWorkerPool(o.workers)
	defer pool.Close()

	if job.Progress == nil {
		job.Progress = NewProgressState(job.Geometry, uint64(pool.Workers()))
	} else {
		job.Progress.ThreadsUsed = uint64(pool.Workers())
	}

	r := &renderer{
		kernel: kernel,
		geom:   job.Geometry,
		mode:   o.mode.resolve(job.Geometry.ThreadWidth()),
		sink:   sink,
	}

	log := Logger()
	log.Info("render start",
		"tiles", job.Geometry.TileCount(),
		"done", job.Progress.Tiles.Count(),
		"workers", pool.Workers(),
		"kernel", r.mode)

	for {
		tile, ok := job.Progress.FirstIncompleteTile()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		job.Progress.CurrentTile = tile

		if err := pool.Run(ctx, r.tileTasks(tile, job.Progress)); err != nil {
			return err
		}
		if !job.Progress.TileThreadsComplete(tile, job.Geometry) {
			return fmt.Errorf("mandel: tile %d incomplete after run", tile)
		}
		job.Progress.MarkTileComplete(tile)
		log.Debug("tile complete", "tile", tile, "next", job.Progress.CurrentTile)

		if o.hook != nil {
			if err := o.hook(tile, job); err != nil {
				return fmt.Errorf("mandel: tile hook after tile %d: %w", tile, err)
			}
		}
	}

	log.Info("render complete", "tiles", job.Geometry.TileCount())
	return nil
}

// renderer renders thread-tiles of one job.
type renderer struct {
	kernel *Kernel
	geom   GridGeometry
	mode   KernelMode
	sink   SampleSink
}

// tileTasks returns one task per incomplete thread-tile of tile.
func (r *renderer) tileTasks(tile uint64, progress *ProgressState) []parallel.Task {
	first, count := r.geom.ThreadRange(tile)
	tasks := make([]parallel.Task, 0, count)
	for j := first; j < first+count; j++ {
		if progress.Threads.IsComplete(j) {
			continue
		}
		region, _ := r.geom.ThreadRegion(j)
		tasks = append(tasks, func(ctx context.Context) {
			if r.renderRegion(ctx, region) {
				progress.MarkThreadComplete(j)
			}
		})
	}
	return tasks
}

// renderRegion renders region row by row and reports whether it finished
// before ctx was done.
func (r *renderer) renderRegion(ctx context.Context, region Region) bool {
	row := make([]Sample, region.W)
	var batch [BatchSize]Sample

	for y := region.Y; y < region.Y+region.H; y++ {
		if ctx.Err() != nil {
			return false
		}
		switch r.mode {
		case KernelScalar:
			for i := range row {
				row[i] = r.kernel.Point(region.X+uint64(i), y)
			}
		default:
			for off := uint64(0); off < region.W; off += BatchSize {
				r.kernel.Batch(region.X+off, y, &batch)
				copy(row[off:], batch[:min(BatchSize, region.W-off)])
			}
		}
		if r.sink != nil {
			r.sink.Samples(region.X, y, row)
		}
	}
	return true
}
