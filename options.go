package mandel

// RenderOption configures a Render call.
//
// Example:
//
//	err := mandel.Render(ctx, job, sink,
//	    mandel.WithWorkers(8),
//	    mandel.WithTileHook(saveCheckpoint),
//	)
type RenderOption func(*renderOptions)

// TileHook is called by Render after a tile has been completed and its
// completion bit set. No worker is running while the hook executes, so it
// may snapshot the job (for example to write checkpoints). A non-nil error
// stops the render.
type TileHook func(tile uint64, job *Job) error

// renderOptions holds optional configuration for Render.
type renderOptions struct {
	workers int
	mode    KernelMode
	hook    TileHook
}

// defaultRenderOptions returns the default render options.
func defaultRenderOptions() renderOptions {
	return renderOptions{
		workers: 0, // GOMAXPROCS
		mode:    KernelAuto,
	}
}

// WithWorkers sets the number of worker goroutines.
// Zero or a negative value uses GOMAXPROCS.
func WithWorkers(n int) RenderOption {
	return func(o *renderOptions) {
		o.workers = n
	}
}

// WithKernelMode selects the kernel implementation.
func WithKernelMode(m KernelMode) RenderOption {
	return func(o *renderOptions) {
		o.mode = m
	}
}

// WithTileHook installs a hook called after every completed tile.
func WithTileHook(h TileHook) RenderOption {
	return func(o *renderOptions) {
		o.hook = h
	}
}
