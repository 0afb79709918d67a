package mandel

import (
	"fmt"
	"math/bits"
)

// Region is a rectangle of pixels in image space.
type Region struct {
	X, Y uint64 // top-left pixel
	W, H uint64 // width and height in pixels
}

// Contains reports whether pixel (x, y) lies within r.
func (r Region) Contains(x, y uint64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Pixels returns the number of pixels in r.
func (r Region) Pixels() uint64 {
	return r.W * r.H
}

// GridGeometry divides an image into a grid of tiles, each of which is
// divided again into a grid of thread-tiles. Every derived size is integral:
// Validate rejects grids that do not divide evenly.
//
// Tiles are numbered row-major across the image. Thread-tile j belongs to
// tile j / ThreadsPerTile and is numbered row-major within that tile.
type GridGeometry struct {
	// Width of total image in pixels
	ImageWidth uint64
	// Height of total image in pixels
	ImageHeight uint64

	// Number of tiles horizontally
	TileGridWidth uint64
	// Number of tiles vertically
	TileGridHeight uint64

	// Number of thread-tiles horizontally per tile
	ThreadGridWidth uint64
	// Number of thread-tiles vertically per tile
	ThreadGridHeight uint64
}

// Validate checks that every dimension is positive and that the image,
// tile and thread-tile sizes divide evenly.
func (g GridGeometry) Validate() error {
	if g.ImageWidth == 0 || g.ImageHeight == 0 ||
		g.TileGridWidth == 0 || g.TileGridHeight == 0 ||
		g.ThreadGridWidth == 0 || g.ThreadGridHeight == 0 {
		return fmt.Errorf("%w: zero dimension in %+v", ErrInvalidGeometry, g)
	}
	if g.ImageWidth%g.TileGridWidth != 0 {
		return fmt.Errorf("%w: image width %d not divisible by %d tiles",
			ErrInvalidGeometry, g.ImageWidth, g.TileGridWidth)
	}
	if g.ImageHeight%g.TileGridHeight != 0 {
		return fmt.Errorf("%w: image height %d not divisible by %d tiles",
			ErrInvalidGeometry, g.ImageHeight, g.TileGridHeight)
	}
	if g.TileWidth()%g.ThreadGridWidth != 0 {
		return fmt.Errorf("%w: tile width %d not divisible by %d thread-tiles",
			ErrInvalidGeometry, g.TileWidth(), g.ThreadGridWidth)
	}
	if g.TileHeight()%g.ThreadGridHeight != 0 {
		return fmt.Errorf("%w: tile height %d not divisible by %d thread-tiles",
			ErrInvalidGeometry, g.TileHeight(), g.ThreadGridHeight)
	}

	// Tile and thread-tile counts must fit in a uint64.
	if hi, _ := bits.Mul64(g.TileGridWidth, g.TileGridHeight); hi != 0 {
		return fmt.Errorf("%w: %dx%d tiles overflow", ErrInvalidGeometry, g.TileGridWidth, g.TileGridHeight)
	}
	if hi, _ := bits.Mul64(g.ThreadGridWidth, g.ThreadGridHeight); hi != 0 {
		return fmt.Errorf("%w: %dx%d thread-tiles per tile overflow",
			ErrInvalidGeometry, g.ThreadGridWidth, g.ThreadGridHeight)
	}
	if hi, _ := bits.Mul64(g.ThreadsPerTile(), g.TileCount()); hi != 0 {
		return fmt.Errorf("%w: thread-tile count overflows", ErrInvalidGeometry)
	}
	return nil
}

// TileWidth returns the width of one tile in pixels.
func (g GridGeometry) TileWidth() uint64 { return g.ImageWidth / g.TileGridWidth }

// TileHeight returns the height of one tile in pixels.
func (g GridGeometry) TileHeight() uint64 { return g.ImageHeight / g.TileGridHeight }

// ThreadWidth returns the width of one thread-tile in pixels.
func (g GridGeometry) ThreadWidth() uint64 { return g.TileWidth() / g.ThreadGridWidth }

// ThreadHeight returns the height of one thread-tile in pixels.
func (g GridGeometry) ThreadHeight() uint64 { return g.TileHeight() / g.ThreadGridHeight }

// TileCount returns the total number of tiles.
func (g GridGeometry) TileCount() uint64 { return g.TileGridWidth * g.TileGridHeight }

// ThreadsPerTile returns the number of thread-tiles in one tile.
func (g GridGeometry) ThreadsPerTile() uint64 { return g.ThreadGridWidth * g.ThreadGridHeight }

// ThreadCount returns the total number of thread-tiles in the image.
func (g GridGeometry) ThreadCount() uint64 { return g.ThreadsPerTile() * g.TileCount() }

// TileRegion returns the pixel region of tile i.
// ok is false if i is out of range.
func (g GridGeometry) TileRegion(i uint64) (r Region, ok bool) {
	if i >= g.TileCount() {
		return Region{}, false
	}
	tw, th := g.TileWidth(), g.TileHeight()
	return Region{
		X: (i % g.TileGridWidth) * tw,
		Y: (i / g.TileGridWidth) * th,
		W: tw,
		H: th,
	}, true
}

// ThreadRegion returns the pixel region of global thread-tile j.
// ok is false if j is out of range.
func (g GridGeometry) ThreadRegion(j uint64) (r Region, ok bool) {
	if j >= g.ThreadCount() {
		return Region{}, false
	}
	per := g.ThreadsPerTile()
	tile, _ := g.TileRegion(j / per)
	local := j % per
	w, h := g.ThreadWidth(), g.ThreadHeight()
	return Region{
		X: tile.X + (local%g.ThreadGridWidth)*w,
		Y: tile.Y + (local/g.ThreadGridWidth)*h,
		W: w,
		H: h,
	}, true
}

// ThreadRange returns the global thread-tile indices [first, first+count)
// belonging to tile i.
func (g GridGeometry) ThreadRange(i uint64) (first, count uint64) {
	per := g.ThreadsPerTile()
	return i * per, per
}
