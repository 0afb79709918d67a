// Command mandel renders a Mandelbrot job tile by tile, writing checkpoints
// after every tile so an interrupted run resumes where it stopped.
//
// Usage:
//
//	mandel -dir ./job -width 1920 -height 1080 -tiles 4x4 -threads 4x2
//
// The checkpoint directory holds save.mc, save.mtc and save.mpc. If they
// describe the same parameters and geometry as the command line, rendering
// resumes from the stored progress; otherwise it starts over.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/mandel"
	"github.com/gogpu/mandel/checkpoint"
)

// config is the parsed command line.
type config struct {
	dir     string
	bundle  string
	fresh   bool
	verbose bool
	workers int
	mode    mandel.KernelMode

	params mandel.FractalParameters
	geom   mandel.GridGeometry
}

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	mandel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		if errors.Is(err, context.Canceled) {
			mandel.Logger().Warn("interrupted; progress saved", "dir", cfg.dir)
			os.Exit(130)
		}
		mandel.Logger().Error("render failed", "err", err)
		os.Exit(1)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (*config, error) {
	def := mandel.DefaultFractalParameters()
	cfg := &config{}

	var (
		width    = fs.Uint64("width", 1920, "image width in pixels")
		height   = fs.Uint64("height", 1080, "image height in pixels")
		tiles    = fs.String("tiles", "4x4", "tile grid, WxH")
		threads  = fs.String("threads", "2x2", "thread-tile grid per tile, WxH")
		kernel   = fs.String("kernel", "auto", "kernel implementation: auto, wide or scalar")
		maxIter  = fs.Int64("max-iter", def.MaxIterations, "maximum iterations per point")
		bailout  = fs.Float64("bailout", def.BailoutRadius, "squared escape radius")
		prec     = fs.Float64("precision", def.PeriodicityPrecision2, "squared periodicity tolerance")
		period   = fs.Uint64("save-period", def.PeriodicitySavePeriod, "periodicity snapshot interval, 0 disables")
		re0, re1 = fs.Float64("re0", def.StartReal, "left edge"), fs.Float64("re1", def.EndReal, "right edge")
		im0, im1 = fs.Float64("im0", def.StartImag, "top edge"), fs.Float64("im1", def.EndImag, "bottom edge")
	)
	fs.StringVar(&cfg.dir, "dir", ".", "checkpoint directory")
	fs.StringVar(&cfg.bundle, "bundle", "", "also write a compressed bundle of the final state to this file")
	fs.BoolVar(&cfg.fresh, "fresh", false, "ignore existing checkpoints")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")
	fs.IntVar(&cfg.workers, "workers", 0, "worker goroutines, 0 for one per CPU")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var err error
	if cfg.mode, err = mandel.ParseKernelMode(*kernel); err != nil {
		return nil, err
	}
	cfg.geom.ImageWidth, cfg.geom.ImageHeight = *width, *height
	if cfg.geom.TileGridWidth, cfg.geom.TileGridHeight, err = parseGrid(*tiles); err != nil {
		return nil, fmt.Errorf("-tiles: %w", err)
	}
	if cfg.geom.ThreadGridWidth, cfg.geom.ThreadGridHeight, err = parseGrid(*threads); err != nil {
		return nil, fmt.Errorf("-threads: %w", err)
	}
	cfg.params = mandel.FractalParameters{
		StartReal:             *re0,
		EndReal:               *re1,
		StartImag:             *im0,
		EndImag:               *im1,
		MaxIterations:         *maxIter,
		BailoutRadius:         *bailout,
		PeriodicityPrecision2: *prec,
		PeriodicitySavePeriod: *period,
	}

	if err := cfg.params.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.geom.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseGrid parses "WxH".
func parseGrid(s string) (w, h uint64, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("grid %q: want WxH", s)
	}
	if w, err = strconv.ParseUint(ws, 10, 64); err != nil {
		return 0, 0, fmt.Errorf("grid %q: %w", s, err)
	}
	if h, err = strconv.ParseUint(hs, 10, 64); err != nil {
		return 0, 0, fmt.Errorf("grid %q: %w", s, err)
	}
	return w, h, nil
}

// run resumes or starts the job described by cfg, renders it to completion
// and prints a summary to out. Checkpoints are written after every tile and
// once more on exit, including when ctx is canceled.
func run(ctx context.Context, cfg *config, out io.Writer) error {
	log := mandel.Logger()

	job := &mandel.Job{Params: cfg.params, Geometry: cfg.geom}
	if !cfg.fresh {
		job.Progress = resume(cfg)
	}

	// Parameters and geometry are written up front so the progress file is
	// never the only checkpoint on disk.
	snap := checkpoint.FromJob(job)
	if err := checkpoint.SaveFile(cfg.path(checkpoint.KindFractalParameters), checkpoint.KindFractalParameters, snap); err != nil {
		return err
	}
	if err := checkpoint.SaveFile(cfg.path(checkpoint.KindGridGeometry), checkpoint.KindGridGeometry, snap); err != nil {
		return err
	}

	saveProgress := func(_ uint64, j *mandel.Job) error {
		return checkpoint.SaveFile(cfg.path(checkpoint.KindProgressState),
			checkpoint.KindProgressState, checkpoint.FromJob(j))
	}

	stats := &renderStats{maxIter: cfg.params.MaxIterations}
	start := time.Now()
	renderErr := mandel.Render(ctx, job, stats,
		mandel.WithWorkers(cfg.workers),
		mandel.WithKernelMode(cfg.mode),
		mandel.WithTileHook(saveProgress),
	)
	elapsed := time.Since(start)

	if job.Progress != nil {
		if err := saveProgress(0, job); err != nil {
			return errors.Join(renderErr, err)
		}
	}
	if renderErr != nil {
		return renderErr
	}

	if cfg.bundle != "" {
		if err := writeBundle(cfg.bundle, job); err != nil {
			return err
		}
		log.Info("bundle written", "path", cfg.bundle)
	}

	stats.print(out, job, elapsed)
	return nil
}

// resume loads the checkpoints in cfg.dir and returns the stored progress
// if it belongs to the job cfg describes, or nil to start over.
func resume(cfg *config) *mandel.ProgressState {
	log := mandel.Logger()

	var snap checkpoint.Snapshot
	if _, err := checkpoint.LoadDir(cfg.dir, &snap); err != nil {
		log.Warn("checkpoints unreadable, starting over", "dir", cfg.dir, "err", err)
		return nil
	}
	switch {
	case snap.Progress == nil:
		return nil
	case snap.Params == nil || !snap.Params.Equal(cfg.params):
		log.Warn("stored parameters differ, discarding progress")
		return nil
	case snap.Geometry == nil || *snap.Geometry != cfg.geom:
		log.Warn("stored geometry differs, discarding progress")
		return nil
	}
	if err := snap.Progress.CheckConsistency(cfg.geom); err != nil {
		log.Warn("stored progress inconsistent, discarding", "err", err)
		return nil
	}
	log.Info("resuming",
		"done", snap.Progress.Tiles.Count(),
		"tiles", cfg.geom.TileCount())
	return snap.Progress
}

func (cfg *config) path(k checkpoint.Kind) string {
	return filepath.Join(cfg.dir, k.DefaultFile())
}

func writeBundle(path string, job *mandel.Job) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", checkpoint.ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: %w", checkpoint.ErrIO, cerr)
		}
	}()
	return checkpoint.WriteBundle(f, checkpoint.FromJob(job))
}

// renderStats is a sample sink that only counts.
type renderStats struct {
	maxIter int64

	pixels     atomic.Uint64
	inside     atomic.Uint64
	iterations atomic.Uint64
}

func (s *renderStats) Samples(_, _ uint64, row []mandel.Sample) {
	var inside, iterations uint64
	for _, smp := range row {
		iterations += uint64(smp.Iterations)
		if smp.Inside(s.maxIter) {
			inside++
		}
	}
	s.pixels.Add(uint64(len(row)))
	s.inside.Add(inside)
	s.iterations.Add(iterations)
}

func (s *renderStats) print(out io.Writer, job *mandel.Job, elapsed time.Duration) {
	p := message.NewPrinter(language.English)
	total := job.Geometry.ImageWidth * job.Geometry.ImageHeight
	rendered := s.pixels.Load()

	p.Fprintf(out, "image      %d x %d, %d tiles\n",
		job.Geometry.ImageWidth, job.Geometry.ImageHeight, job.Geometry.TileCount())
	p.Fprintf(out, "rendered   %d of %d pixels in %v\n", rendered, total, elapsed.Round(time.Millisecond))
	if rendered == 0 {
		return
	}
	p.Fprintf(out, "inside     %d pixels (%.2f%%)\n", s.inside.Load(), 100*float64(s.inside.Load())/float64(rendered))
	p.Fprintf(out, "iterations %d, %.1f per pixel\n", s.iterations.Load(), float64(s.iterations.Load())/float64(rendered))
	if secs := elapsed.Seconds(); secs > 0 {
		p.Fprintf(out, "throughput %.0f pixels/s\n", float64(rendered)/secs)
	}
}
