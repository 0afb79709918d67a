package mandel

import (
	"errors"
	"testing"
)

func progressGeometry() GridGeometry {
	return GridGeometry{
		ImageWidth: 64, ImageHeight: 32,
		TileGridWidth: 2, TileGridHeight: 2,
		ThreadGridWidth: 2, ThreadGridHeight: 2,
	}
}

func TestProgressState_New(t *testing.T) {
	g := progressGeometry()
	p := NewProgressState(g, 3)

	if p.TileCount() != 4 || p.ThreadCount() != 16 {
		t.Errorf("counts = (%d, %d), want (4, 16)", p.TileCount(), p.ThreadCount())
	}
	if p.ThreadsUsed != 3 || p.CurrentTile != 0 {
		t.Errorf("ThreadsUsed = %d, CurrentTile = %d", p.ThreadsUsed, p.CurrentTile)
	}
	if err := p.CheckConsistency(g); err != nil {
		t.Errorf("CheckConsistency() = %v", err)
	}
}

func TestProgressState_CheckConsistency(t *testing.T) {
	g := progressGeometry()

	tests := []struct {
		name   string
		mutate func(*ProgressState)
	}{
		{"nil tiles", func(p *ProgressState) { p.Tiles = nil }},
		{"tile count", func(p *ProgressState) { p.Tiles = NewBitmap(5) }},
		{"thread count", func(p *ProgressState) { p.Threads = NewBitmap(15) }},
		{"current tile", func(p *ProgressState) { p.CurrentTile = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProgressState(g, 1)
			tt.mutate(p)
			if err := p.CheckConsistency(g); !errors.Is(err, ErrInconsistentProgress) {
				t.Errorf("CheckConsistency() = %v, want ErrInconsistentProgress", err)
			}
		})
	}

	p := NewProgressState(g, 1)
	p.CurrentTile = 4
	if err := p.CheckConsistency(g); err != nil {
		t.Errorf("CurrentTile == tileCount should be consistent, got %v", err)
	}
}

func TestProgressState_MarkTileComplete(t *testing.T) {
	p := NewProgressState(progressGeometry(), 1)

	p.MarkTileComplete(2)
	if p.CurrentTile != 0 {
		t.Errorf("CurrentTile = %d after marking tile 2, want 0", p.CurrentTile)
	}
	p.MarkTileComplete(0)
	if p.CurrentTile != 1 {
		t.Errorf("CurrentTile = %d, want 1", p.CurrentTile)
	}
	p.MarkTileComplete(1)
	if p.CurrentTile != 3 {
		t.Errorf("CurrentTile = %d, want 3 (skipping completed tile 2)", p.CurrentTile)
	}
	p.MarkTileComplete(3)
	if p.CurrentTile != 4 || !p.Done() {
		t.Errorf("CurrentTile = %d, Done() = %v, want 4, true", p.CurrentTile, p.Done())
	}
}

func TestProgressState_FirstIncompleteTile(t *testing.T) {
	p := NewProgressState(progressGeometry(), 1)
	p.Tiles.MarkComplete(0)
	p.Tiles.MarkComplete(2)
	p.Tiles.MarkComplete(3)
	p.CurrentTile = 3

	tile, ok := p.FirstIncompleteTile()
	if !ok || tile != 1 {
		t.Errorf("FirstIncompleteTile() = (%d, %v), want (1, true)", tile, ok)
	}

	p.Tiles.MarkComplete(1)
	if _, ok := p.FirstIncompleteTile(); ok {
		t.Error("FirstIncompleteTile() should report no tile when done")
	}
}

func TestProgressState_TileThreadsComplete(t *testing.T) {
	g := progressGeometry()
	p := NewProgressState(g, 1)

	first, count := g.ThreadRange(1)
	for j := first; j < first+count-1; j++ {
		p.MarkThreadComplete(j)
	}
	if p.TileThreadsComplete(1, g) {
		t.Error("tile 1 reported complete with one thread-tile missing")
	}
	p.MarkThreadComplete(first + count - 1)
	if !p.TileThreadsComplete(1, g) {
		t.Error("tile 1 should be complete")
	}
	if p.TileThreadsComplete(0, g) {
		t.Error("tile 0 should not be complete")
	}
}

func TestProgressState_Clone(t *testing.T) {
	p := NewProgressState(progressGeometry(), 2)
	p.MarkThreadComplete(5)
	c := p.Clone()

	p.MarkThreadComplete(6)
	p.MarkTileComplete(0)

	if c.Threads.IsComplete(6) || c.Tiles.IsComplete(0) || c.CurrentTile != 0 {
		t.Error("clone shares state with the original")
	}
	if !c.Threads.IsComplete(5) || c.ThreadsUsed != 2 {
		t.Error("clone lost state")
	}
}
