package mandel

import (
	"fmt"
	"math/bits"
	"sync/atomic"
)

// Bitmap is a fixed-length array of completion bits, one per work unit.
//
// Bit i is stored at byte i/8, bit i%8 of the byte image returned by Bytes,
// least-significant bit first. Internally the bits are packed into uint64
// words in little-endian order, which yields exactly that byte image.
//
// MarkComplete and IsComplete are lock-free and safe for concurrent use:
// marking uses an atomic OR, so workers setting different bits of the same
// byte never lose an update. A Bitmap must not be copied after first use.
type Bitmap struct {
	// words is the atomic bitmap; bit index i lives in word i/64, bit i%64.
	words []atomic.Uint64

	// n is the number of valid bits. It is tracked explicitly and never
	// derived from len(words).
	n uint64
}

// ByteLen returns the number of bytes needed for n bits, ⌈n/8⌉.
func ByteLen(n uint64) uint64 {
	return n/8 + min(n%8, 1)
}

// NewBitmap creates a bitmap of n bits, all clear.
func NewBitmap(n uint64) *Bitmap {
	return &Bitmap{
		words: make([]atomic.Uint64, (n+63)/64),
		n:     n,
	}
}

// BitmapFromBytes creates a bitmap of n bits from its byte image.
// b is copied and must be exactly ByteLen(n) bytes long.
func BitmapFromBytes(n uint64, b []byte) (*Bitmap, error) {
	if uint64(len(b)) != ByteLen(n) {
		return nil, fmt.Errorf("%w: %d bytes for %d bits, want %d",
			ErrInconsistentProgress, len(b), n, ByteLen(n))
	}
	bm := NewBitmap(n)
	for i, v := range b {
		bm.words[i/8].Or(uint64(v) << (uint(i%8) * 8))
	}
	return bm, nil
}

// Len returns the number of bits in the bitmap.
func (b *Bitmap) Len() uint64 {
	return b.n
}

// ByteLen returns the size of the byte image, ⌈Len/8⌉.
func (b *Bitmap) ByteLen() uint64 {
	return ByteLen(b.n)
}

// MarkComplete sets bit i. This is a lock-free O(1) operation.
// Does nothing if i is out of range.
func (b *Bitmap) MarkComplete(i uint64) {
	if i >= b.n {
		return
	}
	b.words[i/64].Or(1 << (i & 63))
}

// IsComplete reports whether bit i is set.
// Returns false for out-of-range indices.
func (b *Bitmap) IsComplete(i uint64) bool {
	if i >= b.n {
		return false
	}
	return b.words[i/64].Load()&(1<<(i&63)) != 0
}

// Count returns the number of set bits.
func (b *Bitmap) Count() uint64 {
	var count uint64
	full := b.n / 64
	for i := uint64(0); i < full; i++ {
		count += uint64(bits.OnesCount64(b.words[i].Load()))
	}
	if rem := b.n % 64; rem > 0 {
		mask := (uint64(1) << rem) - 1
		count += uint64(bits.OnesCount64(b.words[full].Load() & mask))
	}
	return count
}

// All reports whether every bit is set. An empty bitmap is complete.
func (b *Bitmap) All() bool {
	return b.Count() == b.n
}

// NextIncomplete returns the first clear bit at or after from.
// ok is false if every bit from there on is set.
func (b *Bitmap) NextIncomplete(from uint64) (i uint64, ok bool) {
	for i = from; i < b.n; {
		word := ^b.words[i/64].Load() >> (i & 63)
		if word == 0 {
			i = (i/64 + 1) * 64
			continue
		}
		i += uint64(bits.TrailingZeros64(word))
		if i >= b.n {
			break
		}
		return i, true
	}
	return 0, false
}

// Bytes returns the byte image of the bitmap: ByteLen bytes, bit i at byte
// i/8, bit i%8. The returned slice is a snapshot owned by the caller.
func (b *Bitmap) Bytes() []byte {
	out := make([]byte, b.ByteLen())
	for i := range out {
		out[i] = byte(b.words[i/8].Load() >> (uint(i%8) * 8))
	}
	return out
}

// Clone returns an independent copy of b.
func (b *Bitmap) Clone() *Bitmap {
	c := NewBitmap(b.n)
	for i := range b.words {
		c.words[i].Store(b.words[i].Load())
	}
	return c
}
