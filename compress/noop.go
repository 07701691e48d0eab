package compress

// NoOpCompressor passes a buffer through unchanged. It exists so storage
// callers can pick format.CompressionNone through the same Codec interface
// as the real algorithms, rather than special-casing "no compression" at
// every call site.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor returns a NoOpCompressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data unchanged. The returned slice aliases data.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged. The returned slice aliases data.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
