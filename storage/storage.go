// Package storage frames a finished Fleece buffer for storage at rest or
// transport over the network. The frame is never itself a valid Fleece
// buffer: the format's decoders must never be pointed at it directly.
package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/fleece-format/fleece/compress"
	"github.com/fleece-format/fleece/errs"
	"github.com/fleece-format/fleece/format"
)

// headerLen is the frame's fixed prefix: one compression-type byte followed
// by a 4-byte little-endian uncompressed length.
const headerLen = 5

// Pack compresses buf with the given algorithm and wraps it in a frame of
// [1 byte CompressionType][4 bytes LE uncompressed length][compressed bytes].
func Pack(buf []byte, algo format.CompressionType) ([]byte, error) {
	codec, err := compress.GetCodec(algo)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrUnsupportedCompression, err)
	}

	compressed, err := codec.Compress(buf)
	if err != nil {
		return nil, err
	}

	out := make([]byte, headerLen+len(compressed))
	out[0] = byte(algo)
	binary.LittleEndian.PutUint32(out[1:5], uint32(len(buf)))
	copy(out[headerLen:], compressed)

	return out, nil
}

// Unpack reverses Pack: it reads the frame header, decompresses the
// remainder with the matching codec, and returns the original buffer.
func Unpack(framed []byte) ([]byte, error) {
	if len(framed) < headerLen {
		return nil, fmt.Errorf("frame shorter than header: %w", errs.ErrTruncatedFrame)
	}

	algo := format.CompressionType(framed[0])
	uncompressedLen := binary.LittleEndian.Uint32(framed[1:5])

	codec, err := compress.GetCodec(algo)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrUnsupportedCompression, err)
	}

	out, err := codec.Decompress(framed[headerLen:])
	if err != nil {
		return nil, err
	}

	if uint32(len(out)) != uncompressedLen {
		return nil, fmt.Errorf("decompressed length %d does not match frame header %d: %w", len(out), uncompressedLen, errs.ErrInvalidData)
	}

	return out, nil
}

// UncompressedLength reads the uncompressed length recorded in a frame's
// header without decompressing its payload.
func UncompressedLength(framed []byte) (int, error) {
	if len(framed) < headerLen {
		return 0, fmt.Errorf("frame shorter than header: %w", errs.ErrTruncatedFrame)
	}
	return int(binary.LittleEndian.Uint32(framed[1:5])), nil
}

// Algorithm reads the compression algorithm tag recorded in a frame's
// header.
func Algorithm(framed []byte) (format.CompressionType, error) {
	if len(framed) < headerLen {
		return 0, fmt.Errorf("frame shorter than header: %w", errs.ErrTruncatedFrame)
	}
	return format.CompressionType(framed[0]), nil
}
