// Package wire packs and unpacks the standalone value encoding shared by the
// encoder and the value decoder: the tag byte, its type-specific payload, and
// the pointer encoding used both for slots that reference an out-of-line
// value and for a container's own root reference.
//
// A "standalone value" is a self-contained byte sequence starting with a tag
// byte, usable either written out-of-line in a buffer and pointed to, or
// embedded directly (zero-padded) inside a 2-byte narrow or 4-byte wide slot
// when it is small enough to fit.
package wire

import (
	"encoding/binary"
	"math"

	"github.com/fleece-format/fleece/format"
	"github.com/fleece-format/fleece/internal/varint"
)

// NarrowWidth and WideWidth are the two legal container slot widths.
const (
	NarrowWidth = 2
	WideWidth   = 4
)

// countEscape is the count value that signals an out-of-line varint count
// follows the 2-byte array/dict header.
const countEscape = 0x7FF

// lenEscape is the length nibble value that signals an out-of-line varint
// length follows the string/binary tag byte.
const lenEscape = 0xF

// PackShortInt encodes v (must fit in 12 bits signed, -2048..2047) as a
// 2-byte standalone value.
func PackShortInt(v int64) []byte {
	u := uint16(v) & 0x0FFF
	return []byte{byte(u >> 8), byte(u)}
}

// UnpackShortInt decodes a 2-byte short-int standalone value.
func UnpackShortInt(b []byte) int64 {
	u := uint16(b[0]&0x0F)<<8 | uint16(b[1])
	// sign-extend from 12 bits
	v := int64(u)
	if u&0x0800 != 0 {
		v -= 0x1000
	}
	return v
}

// PackSpecial encodes a null/undefined/false/true standalone value.
func PackSpecial(s format.SpecialValue) []byte {
	return []byte{byte(format.TagSpecial)<<4 | byte(s)&0x0F, 0}
}

// UnpackSpecial decodes the special sub-code from a standalone special value.
func UnpackSpecial(b []byte) format.SpecialValue {
	return format.SpecialValue(b[0] & 0x0F)
}

// intLen returns the minimal number of little-endian bytes needed to hold v.
func intLen(v uint64) int {
	n := 1
	for v > 0xFF {
		v >>= 8
		n++
	}
	return n
}

// PackInt encodes an integer as a standalone value using the narrowest
// N-byte little-endian representation (N in 1..8), tagged unsigned when
// requested.
func PackInt(v int64, unsigned bool) []byte {
	var mag uint64
	if unsigned {
		mag = uint64(v)
	} else if v < 0 {
		mag = uint64(-v)
	} else {
		mag = uint64(v)
	}

	n := intLen(mag)
	// a negative signed value needs room for its sign bit in the top byte
	if !unsigned && v < 0 {
		if (mag-1)&(uint64(0x80)<<((n-1)*8)) != 0 {
			n++
		}
	}
	if n > 8 {
		n = 8
	}

	out := make([]byte, 1+n)
	flag := byte(0)
	if unsigned {
		flag = 0x08
	}
	out[0] = byte(format.TagInt)<<4 | flag | byte(n-1)

	u := uint64(v)
	for i := 0; i < n; i++ {
		out[1+i] = byte(u)
		u >>= 8
	}

	return out
}

// UnpackInt decodes an N-byte standalone int value, b must be exactly the
// tag byte plus its N payload bytes.
func UnpackInt(b []byte) (v int64, unsigned bool) {
	n := int(b[0]&0x07) + 1
	unsigned = b[0]&0x08 != 0

	var u uint64
	for i := n - 1; i >= 0; i-- {
		u = u<<8 | uint64(b[1+i])
	}

	if unsigned {
		return int64(u), true
	}

	// sign-extend from n bytes
	shift := 64 - n*8
	return int64(u<<shift) >> shift, false
}

// IntLen returns the total standalone byte length (tag byte included) that
// PackInt would produce for v.
func IntLen(v int64, unsigned bool) int {
	return len(PackInt(v, unsigned))
}

// PackFloat32 encodes a float32 standalone value.
func PackFloat32(f float32) []byte {
	out := make([]byte, 5)
	out[0] = byte(format.TagFloat) << 4
	binary.LittleEndian.PutUint32(out[1:], math.Float32bits(f))
	return out
}

// PackFloat64 encodes a float64 standalone value.
func PackFloat64(f float64) []byte {
	out := make([]byte, 9)
	out[0] = byte(format.TagFloat)<<4 | 0x08
	binary.LittleEndian.PutUint64(out[1:], math.Float64bits(f))
	return out
}

// UnpackFloat decodes a standalone float value, reporting whether it was
// encoded as a double.
func UnpackFloat(b []byte) (f float64, isDouble bool) {
	isDouble = b[0]&0x08 != 0
	if isDouble {
		return math.Float64frombits(binary.LittleEndian.Uint64(b[1:9])), true
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b[1:5]))), false
}

// packLengthHeader returns the tag+length header (and, for lengths >= 0xF,
// the trailing varint) for a string/binary standalone value of the given
// byte length. The caller appends the payload bytes after this header.
func packLengthHeader(tag format.Tag, length int) []byte {
	if length < lenEscape {
		return []byte{byte(tag)<<4 | byte(length)}
	}

	header := []byte{byte(tag)<<4 | lenEscape}
	return varint.Append(header, uint64(length))
}

// PackString encodes a UTF-8 string as a standalone value.
func PackString(s string) []byte {
	out := packLengthHeader(format.TagString, len(s))
	return append(out, s...)
}

// PackBinary encodes a byte slice as a standalone binary value.
func PackBinary(b []byte) []byte {
	out := packLengthHeader(format.TagBinary, len(b))
	return append(out, b...)
}

// UnpackLength reads the length of a string/binary standalone value starting
// at b[0], returning the length and the offset of the payload within b.
func UnpackLength(b []byte) (length int, payloadOffset int) {
	nibble := int(b[0] & 0x0F)
	if nibble != lenEscape {
		return nibble, 1
	}

	v, n := varint.Read(b[1:])
	return int(v), 1 + n
}

// PackContainerHeader encodes an array/dict header (2 bytes, plus a trailing
// varint for counts at or above the escape value).
func PackContainerHeader(tag format.Tag, count int, wide bool) []byte {
	c := count
	if c > countEscape {
		c = countEscape
	}

	wideBit := byte(0)
	if wide {
		wideBit = 0x08
	}

	header := []byte{
		byte(tag)<<4 | wideBit | byte((c>>8)&0x07),
		byte(c),
	}

	if count >= countEscape {
		header = varint.Append(header, uint64(count))
	}

	return header
}

// UnpackContainerHeader reads an array/dict header starting at b[0],
// returning the entry count, whether slots are wide, and the offset of the
// first child slot relative to b.
func UnpackContainerHeader(b []byte) (count int, wide bool, slotsOffset int) {
	wide = b[0]&0x08 != 0
	c := int(b[0]&0x07)<<8 | int(b[1])
	slotsOffset = 2

	if c == countEscape {
		v, n := varint.Read(b[2:])
		c = int(v)
		slotsOffset += n
	}

	return c, wide, slotsOffset
}

// PackPointer encodes a backward pointer of offsetWords 2-byte words.
func PackPointer(offsetWords uint32, wide bool) []byte {
	if wide {
		out := make([]byte, WideWidth)
		binary.BigEndian.PutUint32(out, 0x80000000|(offsetWords&0x7FFFFFFF))
		return out
	}

	out := make([]byte, NarrowWidth)
	binary.BigEndian.PutUint16(out, 0x8000|(uint16(offsetWords)&0x7FFF))
	return out
}

// SlotTag reports the tag of a slot's value without following a pointer.
func SlotTag(slot []byte) (tag format.Tag, isPointer bool) {
	if slot[0]&0x80 != 0 {
		return format.TagPointer, true
	}
	return format.Tag(slot[0] >> 4), false
}

// SlotPointerOffset reads the backward word-offset encoded in a pointer slot.
func SlotPointerOffset(slot []byte, wide bool) uint32 {
	if wide {
		return binary.BigEndian.Uint32(slot) & 0x7FFFFFFF
	}
	return uint32(binary.BigEndian.Uint16(slot) & 0x7FFF)
}

// MaxNarrowOffsetWords and MaxWideOffsetWords are the largest backward
// word-offsets a narrow and a wide pointer can encode, respectively.
const (
	MaxNarrowOffsetWords = 0x7FFF
	MaxWideOffsetWords   = 0x7FFFFFFF
)

// SlotWidth returns the slot width in bytes for a narrow/wide flag.
func SlotWidth(wide bool) int {
	if wide {
		return WideWidth
	}
	return NarrowWidth
}
