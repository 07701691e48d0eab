// Package varint implements the unsigned LEB128 varint used for extra-long
// string/binary lengths and extra-long array/dict counts. It wraps the
// standard library's encoding/binary varint, which is itself unsigned LEB128 —
// there is no dedicated third-party varint library anywhere in the example
// corpus this module is built from, and the corpus's own varint helpers
// (length-prefixed string encoders) are themselves thin wrappers over
// encoding/binary.PutUvarint/Uvarint.
package varint

import "encoding/binary"

// MaxLen is the maximum number of bytes a varint-encoded uint64 can occupy.
const MaxLen = binary.MaxVarintLen64

// Append appends the varint encoding of v to dst and returns the result.
func Append(dst []byte, v uint64) []byte {
	var buf [MaxLen]byte
	n := binary.PutUvarint(buf[:], v)
	return append(dst, buf[:n]...)
}

// Len returns the number of bytes needed to varint-encode v.
func Len(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// Read decodes a varint from the front of src, returning the value and the
// number of bytes consumed. n is 0 if src does not contain a complete varint.
func Read(src []byte) (v uint64, n int) {
	return binary.Uvarint(src)
}
