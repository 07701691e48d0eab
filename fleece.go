// Package fleece provides convenient top-level wrappers around the
// encoder, value, sharedkeys, and storage packages, covering the common
// encode/decode/persist path in a few calls. For fine-grained control
// (base-delta encoding, shared keys, custom compression framing), use
// those packages directly.
//
// # Basic usage
//
// Encoding a document:
//
//	enc, _ := fleece.NewEncoder()
//	enc.BeginDict(2)
//	enc.WriteKey("name")
//	enc.WriteString("gopher")
//	enc.WriteKey("age")
//	enc.WriteInt(11)
//	enc.EndDict()
//	buf, _ := enc.Finish()
//
// Reading it back:
//
//	doc, _ := fleece.Parse(buf)
//	dict, _ := doc.AsDict()
//	name, _ := dict.Get("name", nil)
//	fmt.Println(name.AsString())
//
// Persisting it compressed:
//
//	framed, _ := fleece.Pack(buf, format.CompressionZstd)
//	// ... later, from storage or the network:
//	buf, _ := fleece.Unpack(framed)
package fleece

import (
	"github.com/fleece-format/fleece/encoder"
	"github.com/fleece-format/fleece/format"
	"github.com/fleece-format/fleece/sharedkeys"
	"github.com/fleece-format/fleece/storage"
	"github.com/fleece-format/fleece/value"
)

// NewEncoder creates an encoder with the given options. This is the most
// flexible factory function; see the encoder package for the full set of
// available options (WithSortKeys, WithBase, WithReuseBaseStrings,
// WithSharedKeys, WithUniqueStrings).
func NewEncoder(opts ...encoder.Option) (*encoder.Encoder, error) {
	return encoder.New(opts...)
}

// Parse resolves the root value of a buffer in trusted mode, assuming it
// was produced by this module's own encoder or another implementation
// known to be well-formed. Use ParseValidated for data received from
// outside the process.
func Parse(data []byte) (value.Value, error) {
	return value.Root(data)
}

// ParseValidated resolves the root value of a buffer after walking and
// bounds-checking the entire reachable value graph, rejecting malformed
// input instead of risking an out-of-range read. Use this for buffers
// received from outside the process.
func ParseValidated(data []byte) (value.Value, error) {
	return value.ValidatedRoot(data)
}

// NewSharedKeys returns an empty shared-keys mapping for compressing
// frequently repeated dict keys into small integers. Pass it to an encoder
// via encoder.WithSharedKeys, and to key decoding via the sharedkeys
// package's own Decode.
func NewSharedKeys() *sharedkeys.SharedKeys {
	return sharedkeys.New()
}

// Pack compresses a finished buffer with the given algorithm and wraps it
// in a frame suitable for storage at rest or transport over the network.
func Pack(buf []byte, algo format.CompressionType) ([]byte, error) {
	return storage.Pack(buf, algo)
}

// Unpack reverses Pack, returning the original finished buffer.
func Unpack(framed []byte) ([]byte, error) {
	return storage.Unpack(framed)
}
