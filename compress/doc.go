// Package compress provides compression codecs for persisted Fleece buffers.
//
// Compression is applied to a whole finished buffer, not to the format
// itself: a Fleece document is never compressed in place. The storage
// package wraps a chosen codec's output with a small frame (algorithm tag,
// uncompressed length) so a reader can pick the matching decompressor before
// it ever looks at the buffer's contents.
//
// # Architecture
//
// The package defines three interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Supported algorithms
//
// NoOp (format.CompressionNone) passes data through unchanged; useful when a
// buffer is already small or is about to be compressed again at a lower
// layer (e.g. a compressed filesystem or transport).
//
// Zstd (format.CompressionZstd) gives the best ratio at the most CPU cost.
// Two implementations exist, selected by the cgo build tag: zstd_cgo.go
// wraps valyala/gozstd (faster, requires cgo), zstd_pure.go wraps
// klauspost/compress/zstd (pure Go, used when cgo is unavailable).
//
// S2 (format.CompressionS2), from klauspost/compress/s2, is a Snappy-
// compatible format tuned for speed over ratio.
//
// LZ4 (format.CompressionLZ4), from pierrec/lz4/v4, favors fast
// decompression over compression ratio.
//
// # Choosing a codec
//
// Pick Zstd for archival or network transmission where bandwidth matters
// more than CPU; S2 or LZ4 for a hot read path where decompression latency
// matters more than size; None when the buffer is already small or will be
// compressed again downstream.
package compress
