package cos

import "errors"

// ErrKind is a coarse classification tag attached to every error the module
// returns across package boundaries (catalog, store, xact). It never
// replaces Go error wrapping — callers still use errors.Is/errors.As against
// the concrete sentinel or type — but it lets callers (notably the CLI and
// the runtime's Execution report) bucket an error for display without type
// switches scattered everywhere, mirroring cmn/cos's IsErrX predicate style.
type ErrKind int

const (
	KindUnknown ErrKind = iota
	KindMissingDataset
	KindMissingPartition
	KindMissingObject
	KindInvalidPartition
	KindIO
	KindCodec
	KindCannotInferFormat
	KindCannotCombineFormatAndTarget
)

func (k ErrKind) String() string {
	switch k {
	case KindMissingDataset:
		return "MissingDataset"
	case KindMissingPartition:
		return "MissingPartition"
	case KindMissingObject:
		return "MissingObject"
	case KindInvalidPartition:
		return "InvalidPartition"
	case KindIO:
		return "IO"
	case KindCodec:
		return "Codec"
	case KindCannotInferFormat:
		return "CannotInferFormat"
	case KindCannotCombineFormatAndTarget:
		return "CannotCombineFormatAndTarget"
	default:
		return "Unknown"
	}
}

// Kinded is implemented by every error type defined in catalog/store/xact.
type Kinded interface {
	error
	Kind() ErrKind
}

// KindOf extracts the ErrKind from err if it (or something it wraps)
// implements Kinded, else KindUnknown.
func KindOf(err error) ErrKind {
	var k Kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// IsErrKind reports whether err carries the given kind anywhere in its chain.
func IsErrKind(err error, kind ErrKind) bool {
	return KindOf(err) == kind
}
