package mandel

import "fmt"

// ProgressState records how far a job has got: the next tile to dispatch and
// one completion bit per tile and per thread-tile.
//
// A ProgressState is owned by the job driver. Workers only set completion
// bits, which is safe concurrently; everything else is mutated by the driver
// alone.
type ProgressState struct {
	// ThreadsUsed is the number of workers the job was run with.
	ThreadsUsed uint64

	// CurrentTile is the index of the next tile to dispatch.
	CurrentTile uint64

	// Tiles holds one completion bit per tile.
	Tiles *Bitmap

	// Threads holds one completion bit per thread-tile.
	Threads *Bitmap
}

// NewProgressState creates empty progress for a job laid out by geom.
func NewProgressState(geom GridGeometry, threadsUsed uint64) *ProgressState {
	return &ProgressState{
		ThreadsUsed: threadsUsed,
		Tiles:       NewBitmap(geom.TileCount()),
		Threads:     NewBitmap(geom.ThreadCount()),
	}
}

// TileCount returns the number of tiles tracked.
func (p *ProgressState) TileCount() uint64 { return p.Tiles.Len() }

// ThreadCount returns the number of thread-tiles tracked.
func (p *ProgressState) ThreadCount() uint64 { return p.Threads.Len() }

// CheckConsistency verifies that p was recorded for a job laid out by geom.
func (p *ProgressState) CheckConsistency(geom GridGeometry) error {
	if p.Tiles == nil || p.Threads == nil {
		return fmt.Errorf("%w: missing completion arrays", ErrInconsistentProgress)
	}
	if got, want := p.TileCount(), geom.TileCount(); got != want {
		return fmt.Errorf("%w: tileCount %d, geometry has %d", ErrInconsistentProgress, got, want)
	}
	if got, want := p.ThreadCount(), geom.ThreadCount(); got != want {
		return fmt.Errorf("%w: threadCount %d, geometry has %d", ErrInconsistentProgress, got, want)
	}
	if p.CurrentTile > p.TileCount() {
		return fmt.Errorf("%w: currentTile %d beyond %d tiles",
			ErrInconsistentProgress, p.CurrentTile, p.TileCount())
	}
	return nil
}

// MarkThreadComplete sets the completion bit of global thread-tile j.
// Safe for concurrent use.
func (p *ProgressState) MarkThreadComplete(j uint64) {
	p.Threads.MarkComplete(j)
}

// MarkTileComplete sets the completion bit of tile i and, if i is the
// current tile, advances CurrentTile past every completed tile.
func (p *ProgressState) MarkTileComplete(i uint64) {
	p.Tiles.MarkComplete(i)
	for p.CurrentTile < p.TileCount() && p.Tiles.IsComplete(p.CurrentTile) {
		p.CurrentTile++
	}
}

// TileThreadsComplete reports whether every thread-tile of tile i is done.
func (p *ProgressState) TileThreadsComplete(i uint64, geom GridGeometry) bool {
	first, count := geom.ThreadRange(i)
	for j := first; j < first+count; j++ {
		if !p.Threads.IsComplete(j) {
			return false
		}
	}
	return true
}

// FirstIncompleteTile returns the tile a resumed job continues with: the
// first incomplete tile at or after CurrentTile, wrapping around to catch
// tiles that were skipped earlier.
func (p *ProgressState) FirstIncompleteTile() (uint64, bool) {
	if i, ok := p.Tiles.NextIncomplete(p.CurrentTile); ok {
		return i, true
	}
	return p.Tiles.NextIncomplete(0)
}

// Done reports whether every tile is complete.
func (p *ProgressState) Done() bool {
	return p.Tiles.All()
}

// Clone returns a deep copy of p, suitable for writing a checkpoint while
// workers keep marking bits in the original.
func (p *ProgressState) Clone() *ProgressState {
	return &ProgressState{
		ThreadsUsed: p.ThreadsUsed,
		CurrentTile: p.CurrentTile,
		Tiles:       p.Tiles.Clone(),
		Threads:     p.Threads.Clone(),
	}
}
