package checkpoint

import "errors"

var (
	// ErrIO is returned when a checkpoint file exists but cannot be opened,
	// read or written. A missing file is not an I/O error.
	ErrIO = errors.New("checkpoint: i/o failure")

	// ErrMalformedRecord is returned when a record is truncated, carries the
	// wrong tag or an unsupported schema version.
	ErrMalformedRecord = errors.New("checkpoint: malformed record")

	// ErrUnknownKind is returned for an operation on Unrecognized or an
	// out-of-range Kind.
	ErrUnknownKind = errors.New("checkpoint: unknown record kind")

	errNilSnapshot = errors.New("checkpoint: nil snapshot")
)
