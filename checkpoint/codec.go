package checkpoint

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/mandel"
)

// Identify reads exactly TagSize bytes from r and returns the kind they
// name. A short stream or an unknown tag yields Unrecognized.
func Identify(r io.Reader) Kind {
	k, _ := identify(r)
	return k
}

// identify is Identify that also reports read failures other than a short
// stream.
func identify(r io.Reader) (Kind, error) {
	var tag [TagSize]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		if isShort(err) {
			return Unrecognized, nil
		}
		return Unrecognized, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return kindOf(tag), nil
}

// Validate reports whether r holds a complete record of kind k: the tag, a
// supported version and the whole payload, including both bitmaps of a
// progress record. Bytes after the record are not read. Validate never
// fails loudly; any problem yields false.
func Validate(r io.Reader, k Kind) bool {
	return validate(r, k) == nil
}

// validate returns ErrMalformedRecord for a structurally bad stream,
// ErrUnknownKind for a bad k and ErrIO when reading fails.
func validate(r io.Reader, k Kind) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, k)
	}
	got, err := identify(r)
	if err != nil {
		return err
	}
	if got != k {
		return fmt.Errorf("%w: tag is %s, want %s", ErrMalformedRecord, got, k)
	}
	if err := readVersion(r); err != nil {
		return err
	}

	switch k {
	case KindFractalParameters:
		_, err = readFixed(r, paramsPayloadSize)
		return err
	case KindGridGeometry:
		_, err = readFixed(r, geometryPayloadSize)
		return err
	default:
		h, err := readProgressHeader(r)
		if err != nil {
			return err
		}
		for _, n := range []uint64{h.tileCount, h.threadCount} {
			if err := skipBitmap(r, n); err != nil {
				return err
			}
		}
		return nil
	}
}

// Load decodes a record of kind k from r into the matching part of snap,
// replacing what was there. The tag must already have been consumed, as
// after Identify. Load checks the version and fails with ErrMalformedRecord
// on a short stream; snap is left untouched on error.
func Load(r io.Reader, k Kind, snap *Snapshot) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, k)
	}
	if snap == nil {
		return errNilSnapshot
	}
	switch k {
	case KindFractalParameters:
		p, err := LoadFractalParameters(r)
		if err != nil {
			return err
		}
		snap.Params = &p
	case KindGridGeometry:
		g, err := LoadGridGeometry(r)
		if err != nil {
			return err
		}
		snap.Geometry = &g
	default:
		p, err := LoadProgressState(r)
		if err != nil {
			return err
		}
		snap.Progress = p
	}
	return nil
}

// LoadFractalParameters decodes a parameters record whose tag has been
// consumed.
func LoadFractalParameters(r io.Reader) (mandel.FractalParameters, error) {
	if err := readVersion(r); err != nil {
		return mandel.FractalParameters{}, err
	}
	b, err := readFixed(r, paramsPayloadSize)
	if err != nil {
		return mandel.FractalParameters{}, err
	}
	d := decoder{b: b}
	return mandel.FractalParameters{
		StartReal:             d.f64(),
		EndReal:               d.f64(),
		StartImag:             d.f64(),
		EndImag:               d.f64(),
		MaxIterations:         d.i64(),
		BailoutRadius:         d.f64(),
		PeriodicityPrecision2: d.f64(),
		PeriodicitySavePeriod: d.u64(),
	}, nil
}

// LoadGridGeometry decodes a geometry record whose tag has been consumed.
func LoadGridGeometry(r io.Reader) (mandel.GridGeometry, error) {
	if err := readVersion(r); err != nil {
		return mandel.GridGeometry{}, err
	}
	b, err := readFixed(r, geometryPayloadSize)
	if err != nil {
		return mandel.GridGeometry{}, err
	}
	d := decoder{b: b}
	return mandel.GridGeometry{
		ImageWidth:       d.u64(),
		ImageHeight:      d.u64(),
		TileGridWidth:    d.u64(),
		TileGridHeight:   d.u64(),
		ThreadGridWidth:  d.u64(),
		ThreadGridHeight: d.u64(),
	}, nil
}

// LoadProgressState decodes a progress record whose tag has been consumed.
// The bitmaps are read into freshly allocated storage sized from the
// declared counts.
func LoadProgressState(r io.Reader) (*mandel.ProgressState, error) {
	if err := readVersion(r); err != nil {
		return nil, err
	}
	h, err := readProgressHeader(r)
	if err != nil {
		return nil, err
	}
	tiles, err := readBitmap(r, h.tileCount)
	if err != nil {
		return nil, err
	}
	threads, err := readBitmap(r, h.threadCount)
	if err != nil {
		return nil, err
	}
	return &mandel.ProgressState{
		ThreadsUsed: h.threadsUsed,
		CurrentTile: h.currentTile,
		Tiles:       tiles,
		Threads:     threads,
	}, nil
}

// Save writes the record of kind k taken from snap: tag, version and
// payload. The part of snap for k must be present.
func Save(w io.Writer, k Kind, snap *Snapshot) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, k)
	}
	if snap == nil {
		return errNilSnapshot
	}
	if !snap.Has(k) {
		return fmt.Errorf("checkpoint: snapshot has no %s", k)
	}
	switch k {
	case KindFractalParameters:
		return SaveFractalParameters(w, *snap.Params)
	case KindGridGeometry:
		return SaveGridGeometry(w, *snap.Geometry)
	default:
		return SaveProgressState(w, snap.Progress)
	}
}

// SaveFractalParameters writes a parameters record.
func SaveFractalParameters(w io.Writer, p mandel.FractalParameters) error {
	b := header(KindFractalParameters, paramsPayloadSize)
	b = appendF64(b, p.StartReal)
	b = appendF64(b, p.EndReal)
	b = appendF64(b, p.StartImag)
	b = appendF64(b, p.EndImag)
	b = binary.LittleEndian.AppendUint64(b, uint64(p.MaxIterations))
	b = appendF64(b, p.BailoutRadius)
	b = appendF64(b, p.PeriodicityPrecision2)
	b = binary.LittleEndian.AppendUint64(b, p.PeriodicitySavePeriod)
	return write(w, b)
}

// SaveGridGeometry writes a geometry record.
func SaveGridGeometry(w io.Writer, g mandel.GridGeometry) error {
	b := header(KindGridGeometry, geometryPayloadSize)
	for _, v := range []uint64{
		g.ImageWidth, g.ImageHeight,
		g.TileGridWidth, g.TileGridHeight,
		g.ThreadGridWidth, g.ThreadGridHeight,
	} {
		b = binary.LittleEndian.AppendUint64(b, v)
	}
	return write(w, b)
}

// SaveProgressState writes a progress record. Each bitmap is written at its
// declared length, ⌈count/8⌉ bytes.
func SaveProgressState(w io.Writer, p *mandel.ProgressState) error {
	if p == nil || p.Tiles == nil || p.Threads == nil {
		return fmt.Errorf("%w: missing completion arrays", mandel.ErrInconsistentProgress)
	}
	tiles, threads := p.Tiles.Bytes(), p.Threads.Bytes()

	b := header(KindProgressState, progressHeaderSize+len(tiles)+len(threads))
	b = binary.LittleEndian.AppendUint64(b, p.ThreadsUsed)
	b = binary.LittleEndian.AppendUint64(b, p.CurrentTile)
	b = binary.LittleEndian.AppendUint64(b, p.Tiles.Len())
	b = binary.LittleEndian.AppendUint64(b, p.Threads.Len())
	b = append(b, tiles...)
	b = append(b, threads...)
	return write(w, b)
}

// =============================================================================
// Encoding helpers
// =============================================================================

// header starts a record buffer with the tag and version of k and room for
// payload more bytes.
func header(k Kind, payload int) []byte {
	b := make([]byte, 0, TagSize+1+payload)
	b = append(b, k.Tag()...)
	return append(b, SchemaVersion)
}

func appendF64(b []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
}

func write(w io.Writer, b []byte) error {
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// =============================================================================
// Decoding helpers
// =============================================================================

// decoder walks a fixed payload that is known to be long enough.
type decoder struct {
	b []byte
}

func (d *decoder) u64() uint64 {
	v := binary.LittleEndian.Uint64(d.b)
	d.b = d.b[8:]
	return v
}

func (d *decoder) i64() int64 { return int64(d.u64()) }

func (d *decoder) f64() float64 { return math.Float64frombits(d.u64()) }

type progressHeader struct {
	threadsUsed uint64
	currentTile uint64
	tileCount   uint64
	threadCount uint64
}

func readProgressHeader(r io.Reader) (progressHeader, error) {
	b, err := readFixed(r, progressHeaderSize)
	if err != nil {
		return progressHeader{}, err
	}
	d := decoder{b: b}
	return progressHeader{
		threadsUsed: d.u64(),
		currentTile: d.u64(),
		tileCount:   d.u64(),
		threadCount: d.u64(),
	}, nil
}

func readVersion(r io.Reader) error {
	b, err := readFixed(r, 1)
	if err != nil {
		return err
	}
	if b[0] != SchemaVersion {
		return fmt.Errorf("%w: schema version %d, want %d", ErrMalformedRecord, b[0], SchemaVersion)
	}
	return nil
}

func readFixed(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, readError(err)
	}
	return b, nil
}

// readBitmap reads the byte image of a count-bit bitmap. The buffer grows
// with the data actually read, so a corrupt count cannot force a large
// allocation up front.
func readBitmap(r io.Reader, count uint64) (*mandel.Bitmap, error) {
	n, err := bitmapBytes(count)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, n); err != nil {
		return nil, readError(err)
	}
	return mandel.BitmapFromBytes(count, buf.Bytes())
}

func skipBitmap(r io.Reader, count uint64) error {
	n, err := bitmapBytes(count)
	if err != nil {
		return err
	}
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		return readError(err)
	}
	return nil
}

func bitmapBytes(count uint64) (int64, error) {
	n := mandel.ByteLen(count)
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("%w: bitmap of %d bits", ErrMalformedRecord, count)
	}
	return int64(n), nil
}

// readError classifies a read failure: running out of data means the
// record is malformed, anything else is an I/O failure.
func readError(err error) error {
	if isShort(err) {
		return fmt.Errorf("%w: short read", ErrMalformedRecord)
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}

func isShort(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
