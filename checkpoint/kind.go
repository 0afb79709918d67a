package checkpoint

// Kind identifies the record stored in a checkpoint stream.
type Kind uint8

const (
	// Unrecognized means the stream is absent, too short to hold a tag, or
	// starts with a tag no record uses.
	Unrecognized Kind = iota

	// KindFractalParameters is a mandel.FractalParameters record.
	KindFractalParameters

	// KindGridGeometry is a mandel.GridGeometry record.
	KindGridGeometry

	// KindProgressState is a mandel.ProgressState record.
	KindProgressState
)

// TagSize is the length of the tag that starts every record.
const TagSize = 2

// SchemaVersion is the payload layout version written after the tag.
const SchemaVersion = 1

// Default file names, one per record kind.
const (
	DefaultParamsFile   = "save.mc"
	DefaultGeometryFile = "save.mtc"
	DefaultProgressFile = "save.mpc"
)

// Payload sizes in bytes, excluding tag and version. The progress size
// covers the fixed header only; the two bitmaps follow it.
const (
	paramsPayloadSize   = 8 * 8
	geometryPayloadSize = 6 * 8
	progressHeaderSize  = 4 * 8
)

var tags = [...]string{
	KindFractalParameters: "MC",
	KindGridGeometry:      "TC",
	KindProgressState:     "PC",
}

// Kinds lists every recognized record kind in file order.
func Kinds() []Kind {
	return []Kind{KindFractalParameters, KindGridGeometry, KindProgressState}
}

// String returns the record name.
func (k Kind) String() string {
	switch k {
	case Unrecognized:
		return "Unrecognized"
	case KindFractalParameters:
		return "FractalParameters"
	case KindGridGeometry:
		return "GridGeometry"
	case KindProgressState:
		return "ProgressState"
	default:
		return "Kind(?)"
	}
}

// Valid reports whether k names a record.
func (k Kind) Valid() bool {
	return k >= KindFractalParameters && k <= KindProgressState
}

// Tag returns the two-byte tag of k, or "" if k is not a record kind.
func (k Kind) Tag() string {
	if !k.Valid() {
		return ""
	}
	return tags[k]
}

// DefaultFile returns the conventional file name for k.
func (k Kind) DefaultFile() string {
	switch k {
	case KindFractalParameters:
		return DefaultParamsFile
	case KindGridGeometry:
		return DefaultGeometryFile
	case KindProgressState:
		return DefaultProgressFile
	default:
		return ""
	}
}

// kindOf maps a tag to its kind.
func kindOf(tag [TagSize]byte) Kind {
	for _, k := range Kinds() {
		if string(tag[:]) == tags[k] {
			return k
		}
	}
	return Unrecognized
}
