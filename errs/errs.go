// Package errs holds the sentinel errors returned across the module. Callers
// compare against them with errors.Is; wrapped context is added with fmt.Errorf
// and "%w" at the call site.
package errs

import "errors"

var (
	// ErrOutOfMemory names a failed allocation. No function in this module
	// returns it: the writer grows through ordinary Go allocation, whose
	// failure is a fatal runtime error.
	ErrOutOfMemory = errors.New("fleece: out of memory")

	// ErrOutOfRange is returned when an index or offset falls outside a buffer
	// or container.
	ErrOutOfRange = errors.New("fleece: out of range")

	// ErrInvalidData is returned when a buffer fails structural validation:
	// a length that is not a positive even number, a pointer that does not
	// point backward, a truncated value, or a container that overruns the
	// buffer. Key order is not validated. It is also returned, together with
	// ErrDuplicateKey, when a sorted dict has two equal keys.
	ErrInvalidData = errors.New("fleece: invalid data")

	// ErrEncode is returned by the encoder's state machine when a call is made
	// out of sequence (e.g. endArray while a dict is open, or writeKey outside
	// a dict).
	ErrEncode = errors.New("fleece: encode error")

	// ErrUnknownValue is returned when a value's tag does not match any known
	// kind.
	ErrUnknownValue = errors.New("fleece: unknown value tag")

	// ErrNotFound names a lookup that matched no key. The value package's
	// dict lookups report a miss by returning (Undefined, false), not this
	// error.
	ErrNotFound = errors.New("fleece: not found")

	// ErrSharedKeysState is returned when a SharedKeys operation is misused,
	// e.g. decoding an integer that was never encoded, or exceeding the
	// mapping's integer range.
	ErrSharedKeysState = errors.New("fleece: shared keys state error")

	// ErrDuplicateKey is returned, wrapped together with ErrInvalidData, when
	// the encoder is asked to finish a sorted dict containing two equal keys.
	ErrDuplicateKey = errors.New("fleece: duplicate dict key")

	// ErrNullPointerTarget is returned when a pointer's stored offset is zero,
	// which the format forbids.
	ErrNullPointerTarget = errors.New("fleece: zero pointer offset")

	// ErrUnsupportedCompression is returned by the storage package when asked
	// to use a format.CompressionType it does not recognize.
	ErrUnsupportedCompression = errors.New("fleece: unsupported compression type")

	// ErrTruncatedFrame is returned when a persisted blob is shorter than its
	// framing header. A decompressed length that does not match the header is
	// reported as ErrInvalidData.
	ErrTruncatedFrame = errors.New("fleece: truncated persisted blob frame")
)
