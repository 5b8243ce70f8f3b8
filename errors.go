package parquet

import "fmt"

// Kind classifies an Error per the specification's error-handling design.
type Kind int

const (
	// InvalidRequest covers a multi-column request where one column is
	// required, a missing column, or an out-of-range row span.
	InvalidRequest Kind = iota
	// CorruptMetadata covers an unreadable footer or malformed schema.
	CorruptMetadata
	// CorruptPage covers an unparsable page header, a decompressed-size
	// mismatch, a level stream exceeding the page body, or an unknown
	// encoding.
	CorruptPage
	// UnsupportedFeature covers encryption, an unconfigured codec, or an
	// unimplemented logical type.
	UnsupportedFeature
	// ByteSourceError wraps an error propagated from the ByteSource.
	ByteSourceError
)

func (k Kind) String() string {
	switch k {
	case InvalidRequest:
		return "InvalidRequest"
	case CorruptMetadata:
		return "CorruptMetadata"
	case CorruptPage:
		return "CorruptPage"
	case UnsupportedFeature:
		return "UnsupportedFeature"
	case ByteSourceError:
		return "ByteSourceError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the single error type every read-pipeline failure is reported
// as, queryable by Kind via errors.As.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}
