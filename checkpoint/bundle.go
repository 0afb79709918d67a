package checkpoint

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// WriteBundle writes every part present in snap as one zstd-compressed
// stream: the records in their normal encoding, concatenated in Kinds
// order.
func WriteBundle(w io.Writer, snap *Snapshot) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("checkpoint: bundle encoder: %w", err)
	}
	for _, k := range Kinds() {
		if !snap.Has(k) {
			continue
		}
		if err := Save(enc, k, snap); err != nil {
			_ = enc.Close()
			return err
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// ReadBundle decodes a stream written by WriteBundle. Each record is
// identified by its tag; an unknown tag or a truncated record yields
// ErrMalformedRecord.
func ReadBundle(r io.Reader) (*Snapshot, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	defer dec.Close()

	snap := &Snapshot{}
	for {
		var tag [TagSize]byte
		if _, err := io.ReadFull(dec, tag[:]); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}
		k := kindOf(tag)
		if k == Unrecognized {
			return nil, fmt.Errorf("%w: unknown tag %q", ErrMalformedRecord, tag[:])
		}
		if snap.Has(k) {
			return nil, fmt.Errorf("%w: duplicate %s record", ErrMalformedRecord, k)
		}
		if err := Load(dec, k, snap); err != nil {
			return nil, err
		}
	}
	return snap, nil
}
