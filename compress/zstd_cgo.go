//go:build cgo

package compress

import (
	"github.com/valyala/gozstd"
)

// Compress compresses data using cgo-backed Zstandard, available when the
// build links against the C library.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decompresses data produced by Compress or by any standard Zstd
// encoder.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
