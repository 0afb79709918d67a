package mandel

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

func TestBitmap_MarkAndQuery(t *testing.T) {
	for _, n := range []uint64{1, 7, 8, 9, 63, 64, 65, 200} {
		b := NewBitmap(n)
		if got := b.ByteLen(); got != (n+7)/8 {
			t.Errorf("n=%d: ByteLen() = %d, want %d", n, got, (n+7)/8)
		}

		b.MarkComplete(0)
		b.MarkComplete(n - 1)
		for i := range n {
			want := i == 0 || i == n-1
			if b.IsComplete(i) != want {
				t.Errorf("n=%d: IsComplete(%d) = %v, want %v", n, i, !want, want)
			}
		}
		if want := min(n, 2); b.Count() != want {
			t.Errorf("n=%d: Count() = %d, want %d", n, b.Count(), want)
		}
	}
}

func TestBitmap_OutOfRange(t *testing.T) {
	b := NewBitmap(10)
	b.MarkComplete(10)
	b.MarkComplete(1000)
	if b.Count() != 0 {
		t.Errorf("out-of-range marks changed Count() to %d", b.Count())
	}
	if b.IsComplete(10) {
		t.Error("IsComplete(10) should be false")
	}
}

func TestBitmap_ByteLayout(t *testing.T) {
	b := NewBitmap(16)
	b.MarkComplete(0)
	b.MarkComplete(9)

	want := []byte{0x01, 0x02}
	if got := b.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %#v, want %#v", got, want)
	}
}

func TestBitmap_FromBytes(t *testing.T) {
	src := []byte{0xA5, 0x3C, 0x01}
	b, err := BitmapFromBytes(17, src)
	if err != nil {
		t.Fatalf("BitmapFromBytes() error = %v", err)
	}
	if !bytes.Equal(b.Bytes(), src) {
		t.Errorf("Bytes() = %#v, want %#v", b.Bytes(), src)
	}
	if !b.IsComplete(0) || b.IsComplete(1) || !b.IsComplete(16) {
		t.Error("bits not placed LSB first")
	}

	if _, err := BitmapFromBytes(17, src[:2]); !errors.Is(err, ErrInconsistentProgress) {
		t.Errorf("short input: err = %v, want ErrInconsistentProgress", err)
	}
	if _, err := BitmapFromBytes(8, src); !errors.Is(err, ErrInconsistentProgress) {
		t.Errorf("long input: err = %v, want ErrInconsistentProgress", err)
	}
}

func TestBitmap_PaddingBits(t *testing.T) {
	// Bits beyond the length are carried through but never counted.
	b, err := BitmapFromBytes(3, []byte{0xFF})
	if err != nil {
		t.Fatal(err)
	}
	if b.Count() != 3 || !b.All() {
		t.Errorf("Count() = %d, All() = %v, want 3, true", b.Count(), b.All())
	}
	if got := b.Bytes(); got[0] != 0xFF {
		t.Errorf("padding bits lost: %#x", got[0])
	}
	if _, ok := b.NextIncomplete(0); ok {
		t.Error("NextIncomplete should find nothing in a full bitmap")
	}
}

func TestBitmap_NextIncomplete(t *testing.T) {
	b := NewBitmap(130)
	for i := range uint64(100) {
		b.MarkComplete(i)
	}

	tests := []struct {
		from   uint64
		want   uint64
		wantOK bool
	}{
		{0, 100, true},
		{50, 100, true},
		{100, 100, true},
		{129, 129, true},
		{130, 0, false},
	}
	for _, tt := range tests {
		got, ok := b.NextIncomplete(tt.from)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NextIncomplete(%d) = (%d, %v), want (%d, %v)", tt.from, got, ok, tt.want, tt.wantOK)
		}
	}

	empty := NewBitmap(0)
	if !empty.All() {
		t.Error("empty bitmap should be complete")
	}
}

func TestBitmap_ConcurrentMark(t *testing.T) {
	const n = 4096
	b := NewBitmap(n)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := uint64(w); i < n; i += 8 {
				b.MarkComplete(i)
			}
		}()
	}
	wg.Wait()

	if b.Count() != n {
		t.Errorf("Count() = %d, want %d", b.Count(), n)
	}
}

func TestBitmap_Clone(t *testing.T) {
	b := NewBitmap(70)
	b.MarkComplete(3)
	c := b.Clone()
	b.MarkComplete(69)

	if !c.IsComplete(3) || c.IsComplete(69) {
		t.Error("clone should not observe later marks")
	}
}
